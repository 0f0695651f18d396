package resume

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	resume Resume
	// seq orders writes that land on the same timestamp
	seq uint64
}

// MemoryRepository keeps resumes in process memory
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*memoryEntry
	seq     uint64
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[uuid.UUID]*memoryEntry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) List(_ context.Context, owner uuid.UUID) ([]Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]*memoryEntry, 0)
	for _, e := range r.entries {
		if e.resume.UserID == owner {
			owned = append(owned, e)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		a, b := owned[i], owned[j]
		if !a.resume.UpdatedAt.Equal(b.resume.UpdatedAt) {
			return a.resume.UpdatedAt.After(b.resume.UpdatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]Resume, 0, len(owned))
	for _, e := range owned {
		out = append(out, copyResume(e.resume))
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, owner, id uuid.UUID) (*Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok || e.resume.UserID != owner {
		return nil, ErrNotFound
	}
	res := copyResume(e.resume)
	return &res, nil
}

func (r *MemoryRepository) Create(_ context.Context, owner uuid.UUID, content Content) (*Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.seq++
	e := &memoryEntry{
		resume: Resume{
			ID:        uuid.New(),
			UserID:    owner,
			Content:   content.Clone(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: r.seq,
	}
	r.entries[e.resume.ID] = e

	res := copyResume(e.resume)
	return &res, nil
}

func (r *MemoryRepository) Update(_ context.Context, owner, id uuid.UUID, content Content) (*Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.resume.UserID != owner {
		return nil, ErrNotFound
	}

	r.seq++
	e.seq = r.seq
	e.resume.Content = content.Clone()
	e.resume.UpdatedAt = r.now()

	res := copyResume(e.resume)
	return &res, nil
}

func (r *MemoryRepository) Delete(_ context.Context, owner, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.resume.UserID != owner {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *MemoryRepository) DeleteByOwner(_ context.Context, owner uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.entries {
		if e.resume.UserID == owner {
			delete(r.entries, id)
			n++
		}
	}
	return n, nil
}

func copyResume(r Resume) Resume {
	r.Content = r.Content.Clone()
	return r
}
