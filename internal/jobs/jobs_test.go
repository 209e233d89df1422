package jobs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"nextglide-backend/internal/validation"
)

type fakeRepo struct {
	mu    sync.Mutex
	jobs  map[string]Job
	forms map[string]ApplicationForm
}

func newFakeRepo(items ...Job) *fakeRepo {
	r := &fakeRepo{jobs: make(map[string]Job), forms: make(map[string]ApplicationForm)}
	for _, it := range items {
		r.jobs[it.ID] = it
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, item Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[item.ID] = item
	return nil
}

func (r *fakeRepo) Replace(ctx context.Context, item Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[item.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	r.jobs[item.ID] = item
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[id]
	delete(r.jobs, id)
	return ok, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.jobs[id]
	if !ok {
		return Job{}, mongo.ErrNoDocuments
	}
	return it, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Job, 0, len(r.jobs))
	for _, it := range r.jobs {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) UpsertByTitle(ctx context.Context, item Job) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, it := range r.jobs {
		if it.Title == item.Title {
			item.ID, item.CreatedAt = id, it.CreatedAt
			r.jobs[id] = item
			return false, nil
		}
	}
	r.jobs[item.ID] = item
	return true, nil
}

func (r *fakeRepo) GetForm(ctx context.Context, jobID string) (ApplicationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	form, ok := r.forms[jobID]
	if !ok {
		return ApplicationForm{}, mongo.ErrNoDocuments
	}
	return form, nil
}

func (r *fakeRepo) UpsertForm(ctx context.Context, form ApplicationForm) (ApplicationForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.forms[form.JobID]; ok {
		form.ID = existing.ID
	}
	r.forms[form.JobID] = form
	return form, nil
}

func (r *fakeRepo) DeleteForm(ctx context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, jobID)
	return nil
}

func newTestService(repo Repository) *Service {
	s := NewService(repo, time.UTC)
	s.now = func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC) }
	n := 0
	s.newID = func() string {
		n++
		return "id" + string(rune('0'+n))
	}
	return s
}

func TestCreateDefaultsType(t *testing.T) {
	s := newTestService(newFakeRepo())

	item, err := s.Create(context.Background(), JobRequest{Title: " Go Engineer ", Department: "Platform"})
	require.NoError(t, err)
	assert.Equal(t, "Go Engineer", item.Title)
	assert.Equal(t, DefaultType, item.Type)

	_, err = s.Create(context.Background(), JobRequest{Title: "  "})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestUpdateReplacesAllFields(t *testing.T) {
	created := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	repo := newFakeRepo(Job{ID: "j1", Title: "Old", Department: "Ops", Type: "Contract", CreatedAt: created})
	s := newTestService(repo)

	item, err := s.Update(context.Background(), "j1", JobRequest{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", item.Title)
	assert.Empty(t, item.Department)
	assert.Equal(t, DefaultType, item.Type)
	assert.Equal(t, created, item.CreatedAt)

	_, err = s.Update(context.Background(), "missing", JobRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesForm(t *testing.T) {
	repo := newFakeRepo(Job{ID: "j1", Title: "A"})
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.SaveForm(ctx, FormRequest{JobID: "j1", Fields: []FormField{{Label: "Portfolio", Type: "url"}}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "j1"))
	_, err = s.GetForm(ctx, "j1")
	assert.ErrorIs(t, err, ErrFormNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "j1"), ErrNotFound)
}

func TestSaveFormAssignsIDsAndUpserts(t *testing.T) {
	repo := newFakeRepo(Job{ID: "j1", Title: "A"})
	s := newTestService(repo)
	ctx := context.Background()

	form, err := s.SaveForm(ctx, FormRequest{JobID: "j1", Fields: []FormField{
		{ID: "field_keep", Label: " Years ", Type: "number"},
		{Label: "Why us", Type: "textarea", Options: []string{" ", "x"}},
	}})
	require.NoError(t, err)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, "field_keep", form.Fields[0].ID)
	assert.Equal(t, "Years", form.Fields[0].Label)
	assert.Equal(t, "field_id1", form.Fields[1].ID)
	assert.Equal(t, []string{"x"}, form.Fields[1].Options)
	firstID := form.ID

	form, err = s.SaveForm(ctx, FormRequest{JobID: "j1", Fields: []FormField{}})
	require.NoError(t, err)
	assert.Equal(t, firstID, form.ID)
	assert.Empty(t, form.Fields)

	_, err = s.SaveForm(ctx, FormRequest{JobID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedUpsertsByTitle(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)

	inserted, err := s.Seed(context.Background(), JobRequest{Title: "Designer", Location: "Remote"})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.Seed(context.Background(), JobRequest{Title: "Designer", Location: "Pune"})
	require.NoError(t, err)
	assert.False(t, inserted)

	items, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pune", items[0].Location)
}

func newTestRouter(repo Repository) http.Handler {
	h := NewHandler(newTestService(repo), validation.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/api/jobs", h.PublicList)
	r.Post("/api/jobs", h.AdminCreate)
	r.Put("/api/jobs/{id}", h.AdminUpdate)
	r.Delete("/api/jobs/{id}", h.AdminDelete)
	r.Get("/api/forms/{jobId}", h.PublicGetForm)
	r.Post("/api/forms", h.AdminSaveForm)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec
}

func TestHandlerJobAndFormFlow(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	rec := serve(router, http.MethodPost, "/api/jobs", `{"title":"Data Engineer","location":"Bengaluru"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var job Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/forms/"+job.ID, "").Code)

	rec = serve(router, http.MethodPost, "/api/forms", `{"jobId":"`+job.ID+`","fields":[{"label":"GitHub","type":"url","required":true}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodGet, "/api/forms/"+job.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var form ApplicationForm
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &form))
	require.Len(t, form.Fields, 1)
	assert.True(t, strings.HasPrefix(form.Fields[0].ID, "field_"))

	// The admin editor sends the stored job back with its metadata.
	body, err := json.Marshal(job)
	require.NoError(t, err)
	rec = serve(router, http.MethodPut, "/api/jobs/"+job.ID, strings.Replace(string(body), "Bengaluru", "Remote", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"location":"Remote"`)

	rec = serve(router, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Data Engineer")

	require.Equal(t, http.StatusOK, serve(router, http.MethodDelete, "/api/jobs/"+job.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/forms/"+job.ID, "").Code)
}

func TestHandlerValidation(t *testing.T) {
	router := newTestRouter(newFakeRepo(Job{ID: "j1", Title: "A"}))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing title", http.MethodPost, "/api/jobs", `{"location":"x"}`, http.StatusBadRequest},
		{"bad field type", http.MethodPost, "/api/forms", `{"jobId":"j1","fields":[{"label":"a","type":"file"}]}`, http.StatusBadRequest},
		{"form for unknown job", http.MethodPost, "/api/forms", `{"jobId":"zz","fields":[]}`, http.StatusNotFound},
		{"update unknown job", http.MethodPut, "/api/jobs/zz", `{"title":"x"}`, http.StatusNotFound},
		{"invalid json", http.MethodPost, "/api/jobs", `[`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}
