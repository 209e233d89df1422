package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"nextglide-backend/internal/auth"
	"nextglide-backend/internal/middleware"
	"nextglide-backend/internal/offerings"
	"nextglide-backend/internal/sections"
	"nextglide-backend/internal/validation"
)

const testKey = "ctl-key"

type memRepo struct {
	mu   sync.Mutex
	item offerings.Offering
}

func (r *memRepo) get() offerings.Offering {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.item
}

func (r *memRepo) Create(ctx context.Context, item offerings.Offering) error { return nil }

func (r *memRepo) Replace(ctx context.Context, item offerings.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID != r.item.ID {
		return mongo.ErrNoDocuments
	}
	r.item = item
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (offerings.Offering, error) {
	return offerings.Offering{}, mongo.ErrNoDocuments
}

func (r *memRepo) GetByID(ctx context.Context, id string) (offerings.Offering, error) {
	if it := r.get(); it.ID == id {
		return it, nil
	}
	return offerings.Offering{}, mongo.ErrNoDocuments
}

func (r *memRepo) GetBySlug(ctx context.Context, slug string) (offerings.Offering, error) {
	if it := r.get(); it.Slug == slug {
		return it, nil
	}
	return offerings.Offering{}, mongo.ErrNoDocuments
}

func (r *memRepo) List(ctx context.Context) ([]offerings.Offering, error) {
	return []offerings.Offering{r.get()}, nil
}

func (r *memRepo) ListSummaries(ctx context.Context) ([]offerings.Summary, error) { return nil, nil }

func (r *memRepo) InsertIfMissing(ctx context.Context, item offerings.Offering) (bool, error) {
	return false, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memRepo) {
	t.Helper()
	hidden := false
	repo := &memRepo{item: offerings.Offering{
		ID:   "65f0000000000000000000bb",
		Name: "Cloud Migration",
		Slug: "cloud-migration",
		DynamicSections: []sections.Section{
			{Title: "Scope", LayoutType: sections.LayoutChecklist, Fields: []sections.Field{
				{Label: "Phases", FieldType: sections.FieldArray, Value: sections.ListValue("Assess", "Move")},
			}},
			{Title: "Internal", LayoutType: sections.LayoutFullWidth, IsVisible: &hidden, Fields: []sections.Field{}},
		},
	}}
	svc := offerings.NewService(offerings.KindService, repo, time.UTC)
	h := offerings.NewHandler(svc, validation.New(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil, time.Minute)

	r := chi.NewRouter()
	r.Get("/api/services/{slug}", h.PublicGetBySlug)
	r.With(middleware.AdminAuth(testKey, nil)).Put("/api/services/{id}", h.AdminUpdate)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--api", srv.URL, "--admin-key", testKey, "--kind", "service"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSectionsCommands(t *testing.T) {
	srv, repo := newTestServer(t)

	_, err := run(t, srv, "sections", "add", "cloud-migration", "--title", "Pricing", "--layout", "cards")
	require.NoError(t, err)
	_, err = run(t, srv, "sections", "toggle", "cloud-migration", "1")
	require.NoError(t, err)
	_, err = run(t, srv, "sections", "title", "cloud-migration", "0", "Scope of work")
	require.NoError(t, err)

	got := repo.get().DynamicSections
	require.Len(t, got, 3)
	assert.Equal(t, "Scope of work", got[0].Title)
	assert.True(t, got[1].Visible())
	assert.Equal(t, "Pricing", got[2].Title)
	assert.Equal(t, sections.LayoutCards, got[2].LayoutType)
	assert.Equal(t, []string{"Assess", "Move"}, got[0].Fields[0].Value.Items())

	out, err := run(t, srv, "sections", "list", "cloud-migration")
	require.NoError(t, err)
	assert.Contains(t, out, "Scope of work")
	assert.Contains(t, out, "Pricing")

	_, err = run(t, srv, "sections", "remove", "cloud-migration", "2")
	require.NoError(t, err)
	assert.Len(t, repo.get().DynamicSections, 2)
}

func TestFieldsCommands(t *testing.T) {
	srv, repo := newTestServer(t)

	_, err := run(t, srv, "fields", "add", "cloud-migration", "0", "--label", "Clouds", "--type", "array", "--value", "AWS, GCP\nAzure")
	require.NoError(t, err)
	f := repo.get().DynamicSections[0].Fields[1]
	assert.Equal(t, "Clouds", f.Label)
	assert.Equal(t, sections.FieldArray, f.FieldType)
	assert.Equal(t, []string{"AWS", "GCP", "Azure"}, f.Value.Items())

	_, err = run(t, srv, "fields", "set", "cloud-migration", "0", "1", "--type", "boolean")
	require.NoError(t, err)
	f = repo.get().DynamicSections[0].Fields[1]
	assert.Equal(t, sections.FieldBoolean, f.FieldType)
	assert.True(t, f.Value.Bool())

	_, err = run(t, srv, "fields", "remove", "cloud-migration", "0", "0")
	require.NoError(t, err)
	assert.Len(t, repo.get().DynamicSections[0].Fields, 1)
}

func TestInvalidEditsAreNotSaved(t *testing.T) {
	srv, repo := newTestServer(t)
	before := repo.get()

	_, err := run(t, srv, "sections", "layout", "cloud-migration", "0", "carousel")
	assert.ErrorIs(t, err, sections.ErrUnknownLayout)

	_, err = run(t, srv, "sections", "remove", "cloud-migration", "9")
	assert.Error(t, err)

	_, err = run(t, srv, "sections", "toggle", "cloud-migration", "-1")
	assert.Error(t, err)

	_, err = run(t, srv, "sections", "toggle", "missing", "0")
	assert.Error(t, err)

	assert.Equal(t, before.UpdatedAt, repo.get().UpdatedAt)
}

func TestRenderSkipsHiddenSections(t *testing.T) {
	srv, _ := newTestServer(t)

	out, err := run(t, srv, "render", "cloud-migration")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Scope"`)
	assert.NotContains(t, out, "Internal")
}

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetIn(strings.NewReader("s3cret\n"))
	root.SetArgs([]string{"hash-password"})
	require.NoError(t, root.Execute())

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, auth.ComparePassword(hash, "s3cret"))
}
