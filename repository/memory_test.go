package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"video-subtitles/constant"
	"video-subtitles/entities"
)

func newItem(id uuid.UUID) *entities.Item {
	now := time.Now()
	return &entities.Item{
		ID:        id,
		Title:     "clip.mp4",
		Status:    constant.ItemStatusUploading,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryRepo_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	id := uuid.New()

	require.NoError(t, repo.Create(ctx, newItem(id)))
	require.ErrorIs(t, repo.Create(ctx, newItem(id)), entities.ErrConflict)
}

func TestMemoryRepo_GetNotFound(t *testing.T) {
	repo := NewMemoryRepo()

	_, err := repo.GetById(context.Background(), uuid.New())
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestMemoryRepo_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	id := uuid.New()
	require.NoError(t, repo.Create(ctx, newItem(id)))

	require.NoError(t, repo.UpdateStatus(ctx, id, constant.ItemStatusProcessing, ""))

	got, err := repo.GetById(ctx, id)
	require.NoError(t, err)
	require.Equal(t, constant.ItemStatusProcessing, got.Status)
	require.Empty(t, got.ErrorMessage)

	require.NoError(t, repo.UpdateStatus(ctx, id, constant.ItemStatusError, "engine unavailable"))

	got, err = repo.GetById(ctx, id)
	require.NoError(t, err)
	require.Equal(t, constant.ItemStatusError, got.Status)
	require.Equal(t, "engine unavailable", got.ErrorMessage)
}

func TestMemoryRepo_SetSubtitlesAtomic(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	id := uuid.New()
	require.NoError(t, repo.Create(ctx, newItem(id)))
	require.NoError(t, repo.UpdateStatus(ctx, id, constant.ItemStatusProcessing, ""))

	require.NoError(t, repo.SetSubtitles(ctx, id, "WEBVTT\n\n", "hello"))

	// After SetSubtitles, ready status and both artifacts always appear
	// together.
	got, err := repo.GetById(ctx, id)
	require.NoError(t, err)
	require.Equal(t, constant.ItemStatusReady, got.Status)
	require.Equal(t, "WEBVTT\n\n", got.Subtitles)
	require.Equal(t, "hello", got.Transcript)
}

func TestMemoryRepo_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	id := uuid.New()
	require.NoError(t, repo.Create(ctx, newItem(id)))

	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, uuid.New()))

	_, err := repo.GetById(ctx, id)
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestMemoryRepo_WriteAfterDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	id := uuid.New()
	require.NoError(t, repo.Create(ctx, newItem(id)))
	require.NoError(t, repo.Delete(ctx, id))

	// A late pipeline write must not resurrect the record.
	require.ErrorIs(t, repo.UpdateStatus(ctx, id, constant.ItemStatusError, "late"), entities.ErrNotFound)
	require.ErrorIs(t, repo.SetSubtitles(ctx, id, "WEBVTT\n\n", "late"), entities.ErrNotFound)

	_, err := repo.GetById(ctx, id)
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestMemoryRepo_TerminalStateGuard(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	id := uuid.New()
	require.NoError(t, repo.Create(ctx, newItem(id)))
	require.NoError(t, repo.UpdateStatus(ctx, id, constant.ItemStatusProcessing, ""))
	require.NoError(t, repo.SetSubtitles(ctx, id, "WEBVTT\n\n", "done"))

	// Ready is terminal: neither a status write nor a second finalize
	// may touch the record.
	require.ErrorIs(t, repo.UpdateStatus(ctx, id, constant.ItemStatusProcessing, ""), entities.ErrInvalidTransition)
	require.ErrorIs(t, repo.UpdateStatus(ctx, id, constant.ItemStatusError, "late"), entities.ErrInvalidTransition)
	require.ErrorIs(t, repo.SetSubtitles(ctx, id, "WEBVTT\n\nother", "other"), entities.ErrInvalidTransition)

	got, err := repo.GetById(ctx, id)
	require.NoError(t, err)
	require.Equal(t, constant.ItemStatusReady, got.Status)
	require.Equal(t, "WEBVTT\n\n", got.Subtitles)
	require.Equal(t, "done", got.Transcript)
	require.Empty(t, got.ErrorMessage)
}

func TestMemoryRepo_SetSubtitlesRequiresProcessing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	id := uuid.New()
	require.NoError(t, repo.Create(ctx, newItem(id)))

	// Finalize is only valid from processing.
	require.ErrorIs(t, repo.SetSubtitles(ctx, id, "WEBVTT\n\n", "early"), entities.ErrInvalidTransition)

	got, err := repo.GetById(ctx, id)
	require.NoError(t, err)
	require.Equal(t, constant.ItemStatusUploading, got.Status)
	require.Empty(t, got.Subtitles)
}

func TestMemoryRepo_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	ids := make([]uuid.UUID, 8)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, repo.Create(ctx, newItem(ids[i])))
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_ = repo.UpdateStatus(ctx, id, constant.ItemStatusProcessing, "")
				_, _ = repo.GetById(ctx, id)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range ids {
		got, err := repo.GetById(ctx, id)
		require.NoError(t, err)
		require.Equal(t, constant.ItemStatusProcessing, got.Status)
	}
}
