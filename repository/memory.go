package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"video-subtitles/constant"
	"video-subtitles/entities"
)

// MemoryRepo is an in-process ItemRepository. Each record carries its
// own lock, so mutations on one id serialize without blocking other ids.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*memoryItem
}

type memoryItem struct {
	mu      sync.Mutex
	deleted bool
	item    entities.Item
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		items: make(map[uuid.UUID]*memoryItem),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, item *entities.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return entities.ErrConflict
	}
	r.items[item.ID] = &memoryItem{item: *item}
	return nil
}

func (r *MemoryRepo) GetById(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, ok := r.lookup(id)
	if !ok {
		return nil, entities.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, entities.ErrNotFound
	}
	cp := entry.item
	return &cp, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status constant.ItemStatus, errorMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry, ok := r.lookup(id)
	if !ok {
		return entities.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return entities.ErrNotFound
	}
	if !constant.CanTransition(entry.item.Status, status) {
		return entities.ErrInvalidTransition
	}
	entry.item.Status = status
	if errorMessage != "" {
		entry.item.ErrorMessage = errorMessage
	}
	entry.item.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepo) SetSubtitles(ctx context.Context, id uuid.UUID, subtitles, transcript string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry, ok := r.lookup(id)
	if !ok {
		return entities.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return entities.ErrNotFound
	}
	if !constant.CanTransition(entry.item.Status, constant.ItemStatusReady) {
		return entities.ErrInvalidTransition
	}
	entry.item.Subtitles = subtitles
	entry.item.Transcript = transcript
	entry.item.Status = constant.ItemStatusReady
	entry.item.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	entry, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()

	if ok {
		// Mark the detached entry so an in-flight mutation holding it
		// observes the delete instead of writing into a ghost record.
		entry.mu.Lock()
		entry.deleted = true
		entry.mu.Unlock()
	}
	return nil
}

func (r *MemoryRepo) lookup(id uuid.UUID) (*memoryItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.items[id]
	return entry, ok
}
