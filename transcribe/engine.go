package transcribe

import "context"

// Engine is a speech-to-text backend. It receives the raw bytes of the
// uploaded media and returns recognized text, with word timestamps when
// the backend supports them.
type Engine interface {
	Transcribe(ctx context.Context, audio []byte) (*Result, error)
}

// Result is the common transcription shape across backends.
type Result struct {
	Text  string
	Words []Word
	// VTT is set when the backend already produced a caption track.
	VTT string
}

// Word is one recognized word with its time window in seconds.
type Word struct {
	Word  string
	Start float64
	End   float64
}
