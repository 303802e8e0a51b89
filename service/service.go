package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"video-subtitles/constant"
	"video-subtitles/dto"
	"video-subtitles/entities"
	"video-subtitles/repository"
	"video-subtitles/storage"
	"video-subtitles/subtitle"
	"video-subtitles/transcribe"
)

// Publisher hands a job message to the queue that runs the detached
// part of the pipeline.
type Publisher interface {
	Publish(ctx context.Context, message dto.JobMessage) error
}

// Service drives an item through upload, transcription and subtitle
// synthesis. Submit returns as soon as the blob and the state record
// exist; Process runs later on a queue worker and reports its outcome
// only through the item's status.
type Service interface {
	Submit(ctx context.Context, media io.Reader, size int64, contentType, title string) (*entities.Item, error)
	Process(ctx context.Context, message dto.JobMessage) error
	GetItem(ctx context.Context, id uuid.UUID) (*entities.Item, error)
	ListItems(ctx context.Context) ([]*entities.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	StreamBlob(ctx context.Context, id uuid.UUID) (io.ReadCloser, storage.BlobInfo, error)
}

type service struct {
	repo      repository.ItemRepository
	blobs     storage.BlobStore
	engine    transcribe.Engine
	publisher Publisher
}

func New(repo repository.ItemRepository, blobs storage.BlobStore, engine transcribe.Engine, publisher Publisher) Service {
	return &service{
		repo:      repo,
		blobs:     blobs,
		engine:    engine,
		publisher: publisher,
	}
}

func (s *service) Submit(ctx context.Context, media io.Reader, size int64, contentType, title string) (*entities.Item, error) {
	if media == nil || size <= 0 {
		return nil, entities.ErrEmptyMedia
	}

	id := uuid.New()
	if err := s.blobs.Put(ctx, id.String(), media, size, contentType); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("item_id", id.String()).Msg("failed to store media blob")
		return nil, err
	}

	now := time.Now()
	item := &entities.Item{
		ID:        id,
		Title:     title,
		Status:    constant.ItemStatusUploading,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("item_id", id.String()).Msg("failed to create item record")
		// No record means nothing will ever reference the blob again.
		if removeErr := s.blobs.Remove(ctx, id.String()); removeErr != nil {
			zerolog.Ctx(ctx).Error().Err(removeErr).Str("item_id", id.String()).Msg("failed to remove orphaned blob")
		}
		return nil, err
	}

	if err := s.publisher.Publish(ctx, dto.JobMessage{ItemId: id}); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("item_id", id.String()).Msg("failed to publish subtitle job")
		if updateErr := s.repo.UpdateStatus(ctx, id, constant.ItemStatusError, "failed to queue subtitle job: "+err.Error()); updateErr != nil {
			zerolog.Ctx(ctx).Error().Err(updateErr).Str("item_id", id.String()).Msg("failed to update item status")
		}
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("item_id", id.String()).Str("title", title).Msg("item submitted")
	return item, nil
}

func (s *service) Process(ctx context.Context, message dto.JobMessage) (err error) {
	id := message.ItemId
	zerolog.Ctx(ctx).Info().Str("item_id", id.String()).Msg("processing item")

	if err := s.repo.UpdateStatus(ctx, id, constant.ItemStatusProcessing, ""); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			// Deleted before work started, nothing left to do.
			zerolog.Ctx(ctx).Info().Str("item_id", id.String()).Msg("item gone before processing")
			return nil
		}
		if errors.Is(err, entities.ErrInvalidTransition) {
			// The queue delivers at least once; a redelivered job for an
			// item that already reached a terminal status is dropped.
			zerolog.Ctx(ctx).Info().Str("item_id", id.String()).Msg("item already finished, dropping redelivered job")
			return nil
		}
		return err
	}

	// Every failure past this point is terminal for the item: record it
	// on the item and swallow it so the job is never redelivered.
	defer func() {
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("item_id", id.String()).Msg("subtitle pipeline failed")
			updateErr := s.repo.UpdateStatus(ctx, id, constant.ItemStatusError, err.Error())
			if updateErr != nil && !errors.Is(updateErr, entities.ErrNotFound) && !errors.Is(updateErr, entities.ErrInvalidTransition) {
				zerolog.Ctx(ctx).Error().Err(updateErr).Str("item_id", id.String()).Msg("failed to update item status")
			}
			err = nil
		}
	}()

	obj, _, err := s.blobs.Get(ctx, id.String())
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("video not found in storage")
		}
		return err
	}
	defer obj.Close()

	audio, err := io.ReadAll(obj)
	if err != nil {
		return fmt.Errorf("failed to read media blob: %w", err)
	}

	result, err := s.engine.Transcribe(ctx, audio)
	if err != nil {
		return err
	}

	vtt := subtitle.Synthesize(result)

	if err := s.repo.SetSubtitles(ctx, id, vtt, result.Text); err != nil {
		if errors.Is(err, entities.ErrNotFound) || errors.Is(err, entities.ErrInvalidTransition) {
			// Deleted mid-flight, or a duplicate delivery finished the
			// item first; either way this result is simply dropped.
			zerolog.Ctx(ctx).Info().Str("item_id", id.String()).Msg("item gone or finished before finalize")
			return nil
		}
		return err
	}

	zerolog.Ctx(ctx).Info().Str("item_id", id.String()).Msg("item ready")
	return nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	return s.repo.GetById(ctx, id)
}

func (s *service) ListItems(ctx context.Context) ([]*entities.Item, error) {
	keys, err := s.blobs.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Item, 0, len(keys))
	for _, key := range keys {
		id, err := uuid.Parse(key)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Str("key", key).Msg("blob key is not an item id")
			continue
		}
		item, err := s.repo.GetById(ctx, id)
		if errors.Is(err, entities.ErrNotFound) {
			// A blob without a state record means either a submit still
			// in flight or a consistency defect; either way it is not a
			// listable item yet.
			zerolog.Ctx(ctx).Warn().Str("item_id", key).Msg("blob has no state record")
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.blobs.Remove(ctx, id.String()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("item_id", id.String()).Msg("item deleted")
	return nil
}

func (s *service) StreamBlob(ctx context.Context, id uuid.UUID) (io.ReadCloser, storage.BlobInfo, error) {
	return s.blobs.Get(ctx, id.String())
}
