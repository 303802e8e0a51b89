package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"video-subtitles/constant"
	"video-subtitles/entities"
)

// ItemRepository holds one record per uploaded item. All mutations on
// the same id are serialized; a mutation on a deleted id reports
// entities.ErrNotFound and never recreates the record.
type ItemRepository interface {
	Create(ctx context.Context, item *entities.Item) error
	GetById(ctx context.Context, id uuid.UUID) (*entities.Item, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constant.ItemStatus, errorMessage string) error
	SetSubtitles(ctx context.Context, id uuid.UUID, subtitles, transcript string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) (ItemRepository, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		},
	)
	if err != nil {
		return nil, err
	}
	return &repo{
		db: gormDB,
	}, nil
}

func (r *repo) Create(ctx context.Context, item *entities.Item) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return entities.ErrConflict
	}
	return err
}

func (r *repo) GetById(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	item := &entities.Item{}
	err := r.db.WithContext(ctx).First(item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, status constant.ItemStatus, errorMessage string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if errorMessage != "" {
		updates["error_message"] = errorMessage
	}
	// Updates never inserts, so a delete racing this write stays deleted;
	// the status predicate keeps a redelivered job from re-entering a
	// terminal record.
	tx := r.db.WithContext(ctx).Model(&entities.Item{}).
		Where("id = ? AND status IN ?", id, transitionSources(status)).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return r.missingOrTerminal(ctx, id)
	}
	return nil
}

func (r *repo) SetSubtitles(ctx context.Context, id uuid.UUID, subtitles, transcript string) error {
	// Single UPDATE keeps subtitles, transcript and the ready status atomic.
	tx := r.db.WithContext(ctx).Model(&entities.Item{}).
		Where("id = ? AND status = ?", id, constant.ItemStatusProcessing).
		Updates(map[string]interface{}{
			"subtitles":  subtitles,
			"transcript": transcript,
			"status":     constant.ItemStatusReady,
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return r.missingOrTerminal(ctx, id)
	}
	return nil
}

// missingOrTerminal tells a deleted record apart from one that refused
// the transition.
func (r *repo) missingOrTerminal(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetById(ctx, id); err != nil {
		return err
	}
	return entities.ErrInvalidTransition
}

func transitionSources(to constant.ItemStatus) []constant.ItemStatus {
	all := []constant.ItemStatus{
		constant.ItemStatusUploading,
		constant.ItemStatusProcessing,
		constant.ItemStatusReady,
		constant.ItemStatusError,
	}
	var from []constant.ItemStatus
	for _, s := range all {
		if constant.CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Item{}).Error
}
