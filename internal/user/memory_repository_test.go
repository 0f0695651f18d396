package user

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, "Jane Doe", "jane@example.com", "hash")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.Create(ctx, "Other", "jane@example.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	byEmail, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", byID.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)

	_, err = repo.GetByEmail(ctx, "jane@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// email is free again after deletion
	_, err = repo.Create(ctx, "Jane Doe", "jane@example.com", "hash")
	assert.NoError(t, err)
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := User{ID: uuid.New(), Name: "A", Email: "a@example.com", PasswordHash: "secret"}
	assertNoHash(t, u)
}

func assertNoHash(t *testing.T, u User) {
	t.Helper()
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), `"createdAt"`)
}
