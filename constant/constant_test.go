package constant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminal(t *testing.T) {
	require.False(t, ItemStatusUploading.Terminal())
	require.False(t, ItemStatusProcessing.Terminal())
	require.True(t, ItemStatusReady.Terminal())
	require.True(t, ItemStatusError.Terminal())
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]ItemStatus]bool{
		{ItemStatusUploading, ItemStatusProcessing}: true,
		{ItemStatusUploading, ItemStatusError}:      true,
		{ItemStatusProcessing, ItemStatusReady}:     true,
		{ItemStatusProcessing, ItemStatusError}:     true,
	}

	statuses := []ItemStatus{ItemStatusUploading, ItemStatusProcessing, ItemStatusReady, ItemStatusError}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]ItemStatus{from, to}]
			require.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}
