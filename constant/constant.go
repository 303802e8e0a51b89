package constant

type ItemStatus string

const (
	ItemStatusUploading  ItemStatus = "uploading"
	ItemStatusProcessing ItemStatus = "processing"
	ItemStatusReady      ItemStatus = "ready"
	ItemStatusError      ItemStatus = "error"
)

func (s ItemStatus) String() string {
	return string(s)
}

// Terminal reports whether no further automatic transition happens from s.
func (s ItemStatus) Terminal() bool {
	return s == ItemStatusReady || s == ItemStatusError
}

// CanTransition reports whether an item may move from one status to
// another. Terminal statuses admit no outgoing transitions, so a
// redelivered job cannot drag a finished item back into the pipeline.
func CanTransition(from, to ItemStatus) bool {
	switch from {
	case ItemStatusUploading:
		return to == ItemStatusProcessing || to == ItemStatusError
	case ItemStatusProcessing:
		return to == ItemStatusReady || to == ItemStatusError
	default:
		return false
	}
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
