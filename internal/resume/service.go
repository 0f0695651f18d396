package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/redmonkez12/cvbuilder/internal/logging"
)

// Renderer turns a resume into a standalone HTML document
type Renderer interface {
	Render(w io.Writer, tpl Template, r *Resume) error
}

// Service implements the owner-scoped resume operations
type Service struct {
	repo     Repository
	renderer Renderer
	logger   *logging.Logger
}

func NewService(repo Repository, renderer Renderer, logger *logging.Logger) *Service {
	return &Service{
		repo:     repo,
		renderer: renderer,
		logger:   logger,
	}
}

// List returns the owner's resumes, most recently updated first. Never nil.
func (s *Service) List(ctx context.Context, owner uuid.UUID) ([]Resume, error) {
	resumes, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if resumes == nil {
		resumes = []Resume{}
	}
	return resumes, nil
}

// Get returns one resume. Malformed ids are reported as not found.
func (s *Service) Get(ctx context.Context, owner uuid.UUID, id string) (*Resume, error) {
	resumeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, owner, resumeID)
}

// Create stores a new resume for owner. Blank fields get their defaults.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, content Content) (*Resume, error) {
	if err := Prepare(&content); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, owner, content)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("resume created", "resume_id", created.ID, "user_id", owner)
	return created, nil
}

// Update replaces every user-editable field of an existing resume
func (s *Service) Update(ctx context.Context, owner uuid.UUID, id string, content Content) (*Resume, error) {
	resumeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := Prepare(&content); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, owner, resumeID, content)
}

// Delete removes a resume. Deleting it again reports ErrNotFound.
func (s *Service) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	resumeID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, owner, resumeID)
}

// Preview renders a stored resume as HTML. A known template name overrides
// the stored one; anything else keeps the stored template.
func (s *Service) Preview(ctx context.Context, owner uuid.UUID, id, template string) ([]byte, error) {
	res, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	tpl := res.Template
	if override, ok := ParseTemplate(template); ok {
		tpl = override
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, tpl, res); err != nil {
		return nil, fmt.Errorf("failed to render resume: %w", err)
	}
	return buf.Bytes(), nil
}

// DeleteAllForOwner removes every resume the owner has. Used when an account
// is deleted.
func (s *Service) DeleteAllForOwner(ctx context.Context, owner uuid.UUID) error {
	n, err := s.repo.DeleteByOwner(ctx, owner)
	if err != nil {
		return err
	}

	s.logger.Info("deleted resumes for owner", "user_id", owner, "count", n)
	return nil
}
