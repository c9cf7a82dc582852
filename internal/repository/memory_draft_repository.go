package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/google/uuid"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryDraftRepository keeps drafts in process. Expired entries are dropped on access and by PurgeExpired.
type MemoryDraftRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryDraftRepository(ttl time.Duration) *MemoryDraftRepository {
	return &MemoryDraftRepository{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *MemoryDraftRepository) CreateDraft(ctx context.Context, draft *model.Draft) error {
	payload, err := encodeDraft(draft)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[draft.ID] = memoryEntry{payload: payload, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *MemoryDraftRepository) FindDraftByID(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	if !r.now().Before(entry.expiresAt) {
		r.mu.Lock()
		// re-check: an update may have refreshed it between the locks
		if current, ok := r.entries[id]; ok && !r.now().Before(current.expiresAt) {
			delete(r.entries, id)
		}
		r.mu.Unlock()
		return nil, ErrDraftNotFound
	}
	return decodeDraft(entry.payload)
}

func (r *MemoryDraftRepository) UpdateDraft(ctx context.Context, draft *model.Draft) error {
	payload, err := encodeDraft(draft)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[draft.ID]
	if !ok || !r.now().Before(entry.expiresAt) {
		delete(r.entries, draft.ID)
		return ErrDraftNotFound
	}
	r.entries[draft.ID] = memoryEntry{payload: payload, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *MemoryDraftRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ErrDraftNotFound
	}
	delete(r.entries, id)
	return nil
}

// PurgeExpired drops every entry past its expiry and reports how many went.
func (r *MemoryDraftRepository) PurgeExpired(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var purged int64
	for id, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, id)
			purged++
		}
	}
	return purged, nil
}

func (r *MemoryDraftRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
