package resume

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/cvbuilder/internal/database"
)

// document is the JSONB payload of a resumes row. Title and template live in
// their own columns.
type document struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
}

// BunRepository handles resume persistence on Postgres
type BunRepository struct {
	db *bun.DB
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) List(ctx context.Context, owner uuid.UUID) ([]Resume, error) {
	var rows []database.Resume
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", owner).
		Order("updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	out := make([]Resume, 0, len(rows))
	for i := range rows {
		res, err := mapDBResumeToModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, nil
}

func (r *BunRepository) Get(ctx context.Context, owner, id uuid.UUID) (*Resume, error) {
	row := new(database.Resume)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Where("user_id = ?", owner).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	return mapDBResumeToModel(row)
}

func (r *BunRepository) Create(ctx context.Context, owner uuid.UUID, content Content) (*Resume, error) {
	payload, err := marshalDocument(content)
	if err != nil {
		return nil, err
	}

	row := &database.Resume{
		UserID:   owner,
		Title:    content.Title,
		Template: string(content.Template),
		Content:  payload,
	}

	_, err = r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	return mapDBResumeToModel(row)
}

func (r *BunRepository) Update(ctx context.Context, owner, id uuid.UUID, content Content) (*Resume, error) {
	payload, err := marshalDocument(content)
	if err != nil {
		return nil, err
	}

	row := &database.Resume{
		ID:        id,
		UserID:    owner,
		Title:     content.Title,
		Template:  string(content.Template),
		Content:   payload,
		UpdatedAt: time.Now().UTC(),
	}

	result, err := r.db.NewUpdate().
		Model(row).
		Column("title", "template", "content", "updated_at").
		Where("id = ?", id).
		Where("user_id = ?", owner).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBResumeToModel(row)
}

func (r *BunRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Resume)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", owner).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *BunRepository) DeleteByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*database.Resume)(nil)).
		Where("user_id = ?", owner).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete resumes: %w", err)
	}

	return result.RowsAffected()
}

func marshalDocument(c Content) (json.RawMessage, error) {
	payload, err := json.Marshal(document{
		PersonalInfo:   c.PersonalInfo,
		Experience:     c.Experience,
		Education:      c.Education,
		Skills:         c.Skills,
		Projects:       c.Projects,
		Certifications: c.Certifications,
		Languages:      c.Languages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode resume content: %w", err)
	}
	return payload, nil
}

// mapDBResumeToModel converts database model to domain model
func mapDBResumeToModel(row *database.Resume) (*Resume, error) {
	var doc document
	if len(row.Content) > 0 {
		if err := json.Unmarshal(row.Content, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode resume %s: %w", row.ID, err)
		}
	}

	res := &Resume{
		ID:     row.ID,
		UserID: row.UserID,
		Content: Content{
			Title:          row.Title,
			PersonalInfo:   doc.PersonalInfo,
			Experience:     doc.Experience,
			Education:      doc.Education,
			Skills:         doc.Skills,
			Projects:       doc.Projects,
			Certifications: doc.Certifications,
			Languages:      doc.Languages,
			Template:       Template(row.Template),
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	res.Content.Normalize()
	return res, nil
}
