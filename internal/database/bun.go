package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// NewBunDB creates a new Bun DB instance from an existing sql.DB connection
func NewBunDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, pgdialect.New())
}

// User is the users table row.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Resume is the resumes table row. Everything the owner edits apart from the
// title and template lives in the Content JSONB column.
type Resume struct {
	bun.BaseModel `bun:"table:resumes,alias:r"`

	ID        uuid.UUID       `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()"`
	UserID    uuid.UUID       `bun:"user_id,type:uuid,notnull"`
	Title     string          `bun:"title,notnull"`
	Template  string          `bun:"template,notnull,default:'modern'"`
	Content   json.RawMessage `bun:"content,type:jsonb,notnull"`
	CreatedAt time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// CreateSchema creates the users and resumes tables when they do not exist.
// Deleting a user cascades to their resumes.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*Resume)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create resumes table: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*Resume)(nil)).
		Index("resumes_user_id_updated_at_idx").
		IfNotExists().
		ColumnExpr("user_id, updated_at DESC").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create resumes index: %w", err)
	}

	return nil
}
