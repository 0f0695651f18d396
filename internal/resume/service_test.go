package resume

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/cvbuilder/internal/logging"
)

type stubRenderer struct {
	lastTemplate Template
}

func (s *stubRenderer) Render(w io.Writer, tpl Template, r *Resume) error {
	s.lastTemplate = tpl
	_, err := fmt.Fprintf(w, "<div id=\"resume-preview\">%s</div>", r.Title)
	return err
}

func newTestService() (*Service, *stubRenderer) {
	renderer := &stubRenderer{}
	return NewService(NewMemoryRepository(), renderer, logging.NewLoggerWithWriter(io.Discard, false)), renderer
}

func adaContent() Content {
	return Content{
		Title: "Ada CV",
		PersonalInfo: PersonalInfo{
			FullName: "Ada Lovelace",
			Email:    "ada@x.com",
		},
		Experience: []Experience{{
			JobTitle:  "Analyst",
			Company:   "Analytical Engine Co",
			StartDate: "2022-01",
			Current:   true,
		}},
	}
}

func TestCreateThenGetReturnsInputWithDefaults(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, adaContent())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, owner, created.UserID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, owner, created.ID.String())
	require.NoError(t, err)

	want := adaContent()
	want.Normalize()
	assert.Equal(t, want, got.Content)
	assert.Equal(t, TemplateModern, got.Template)
	assert.Equal(t, []Skill{}, got.Skills)
}

func TestCreateKeepsAngleBracketsAndEntities(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	in := adaContent()
	in.PersonalInfo.Summary = "Rust: Vec<String> and Option<T> everywhere"
	in.Skills = []Skill{{Name: "C++ <templates>", Level: SkillAdvanced}}
	in.Experience[0].Description = "literal &lt;b&gt; in docs"
	want := in.Clone()
	want.Normalize()

	created, err := svc.Create(ctx, owner, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, want, got.Content)
}

func TestCreateEmptyGetsDefaults(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), uuid.New(), Content{})
	require.NoError(t, err)
	assert.Equal(t, DefaultContent(), created.Content)
	assert.Equal(t, "My Resume", created.Title)
}

func TestOtherOwnerSeesNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ownerA, ownerB := uuid.New(), uuid.New()

	created, err := svc.Create(ctx, ownerA, adaContent())
	require.NoError(t, err)
	id := created.ID.String()

	_, err = svc.Get(ctx, ownerB, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, ownerB, id, Content{Title: "hijacked"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, ownerB, id), ErrNotFound)

	listB, err := svc.List(ctx, ownerB)
	require.NoError(t, err)
	assert.Empty(t, listB)

	// A's copy is untouched
	got, err := svc.Get(ctx, ownerA, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada CV", got.Title)
}

func TestUpdateIsIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, adaContent())
	require.NoError(t, err)

	update := adaContent()
	update.Skills = []Skill{{Name: "Mathematics", Level: SkillExpert}}

	first, err := svc.Update(ctx, owner, created.ID.String(), update)
	require.NoError(t, err)
	second, err := svc.Update(ctx, owner, created.ID.String(), update)
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, created.CreatedAt, second.CreatedAt)
	assert.Equal(t, created.ID, second.ID)
	assert.Equal(t, owner, second.UserID)
}

func TestUpdateIsFullReplace(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, adaContent())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, created.ID.String(), Content{Title: "Short"})
	require.NoError(t, err)
	assert.Equal(t, "Short", updated.Title)
	assert.Empty(t, updated.Experience)
	assert.Empty(t, updated.PersonalInfo.FullName)
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, adaContent())
	require.NoError(t, err)
	id := created.ID.String()

	require.NoError(t, svc.Delete(ctx, owner, id))

	_, err = svc.Get(ctx, owner, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, owner, id), ErrNotFound)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Get(ctx, owner, "64b7f0c2e1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, owner, "nope", Content{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, owner, ""), ErrNotFound)
}

func TestListMostRecentlyUpdatedFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		created, err := svc.Create(ctx, owner, Content{Title: fmt.Sprintf("cv %d", i)})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	// touching the oldest moves it to the front
	_, err := svc.Update(ctx, owner, ids[0].String(), Content{Title: "cv 0 again"})
	require.NoError(t, err)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uuid.UUID{ids[0], ids[2], ids[1]}, []uuid.UUID{list[0].ID, list[1].ID, list[2].ID})
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService()

	list, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPreviewTemplateOverride(t *testing.T) {
	svc, renderer := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	c := adaContent()
	c.Template = TemplateClassic
	created, err := svc.Create(ctx, owner, c)
	require.NoError(t, err)

	page, err := svc.Preview(ctx, owner, created.ID.String(), "")
	require.NoError(t, err)
	assert.Contains(t, string(page), "Ada CV")
	assert.Equal(t, TemplateClassic, renderer.lastTemplate)

	_, err = svc.Preview(ctx, owner, created.ID.String(), "minimal")
	require.NoError(t, err)
	assert.Equal(t, TemplateMinimal, renderer.lastTemplate)

	_, err = svc.Preview(ctx, owner, created.ID.String(), "fancy")
	require.NoError(t, err)
	assert.Equal(t, TemplateClassic, renderer.lastTemplate)

	_, err = svc.Preview(ctx, uuid.New(), created.ID.String(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAllForOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, owner, Content{})
		require.NoError(t, err)
	}
	kept, err := svc.Create(ctx, other, Content{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAllForOwner(ctx, owner))

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(ctx, other, kept.ID.String())
	assert.NoError(t, err)
}

func TestStoredContentIsIsolatedFromCaller(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	c := adaContent()
	created, err := svc.Create(ctx, owner, c)
	require.NoError(t, err)

	created.Experience[0].JobTitle = "mutated"

	got, err := svc.Get(ctx, owner, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Analyst", got.Experience[0].JobTitle)
}
