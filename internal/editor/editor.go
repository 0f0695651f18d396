package editor

import (
	"context"
	"sync"

	"github.com/redmonkez12/cvbuilder/internal/resume"
)

// Saver persists drafts. *client.State satisfies it.
type Saver interface {
	CreateResume(ctx context.Context, content resume.Content) (*resume.Resume, error)
	UpdateResume(ctx context.Context, id string, content resume.Content) (*resume.Resume, error)
}

// Editor owns the current draft and knows whether it has been stored yet
type Editor struct {
	saver Saver

	mu    sync.Mutex
	id    string
	draft Draft
}

// New starts editing existing, or a blank resume when existing is nil
func New(saver Saver, existing *resume.Resume) *Editor {
	e := &Editor{saver: saver, draft: BlankDraft()}
	if existing != nil {
		e.id = existing.ID.String()
		e.draft = NewDraft(existing.Content)
	}
	return e
}

// ID is empty until the draft has been created on the server
func (e *Editor) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Apply replaces the current draft wholesale
func (e *Editor) Apply(d Draft) {
	e.mu.Lock()
	e.draft = d
	e.mu.Unlock()
}

// Update runs change against the current draft and keeps the result only
// when it succeeds.
func (e *Editor) Update(change func(Draft) (Draft, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := change(e.draft)
	if err != nil {
		return err
	}
	e.draft = next
	return nil
}

// Save creates the resume the first time and updates it afterwards. After a
// create the editor carries on with the new id. The draft becomes what the
// server stored; on failure it is left as it was.
func (e *Editor) Save(ctx context.Context) (*resume.Resume, error) {
	e.mu.Lock()
	id, draft := e.id, e.draft
	e.mu.Unlock()

	var (
		saved *resume.Resume
		err   error
	)
	if id == "" {
		saved, err = e.saver.CreateResume(ctx, draft.Content())
	} else {
		saved, err = e.saver.UpdateResume(ctx, id, draft.Content())
	}
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.id = saved.ID.String()
	e.draft = NewDraft(saved.Content)
	e.mu.Unlock()

	return saved, nil
}
