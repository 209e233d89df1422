package contacts

import (
	"context"
	"encoding/json"
	"errors"
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
	"go.uber.org/goleak"

	"nextglide-backend/internal/validation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]Contact
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Contact)}
}

func (r *fakeRepo) Create(ctx context.Context, item Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *fakeRepo) matching(filter ListFilter) []Contact {
	out := make([]Contact, 0, len(r.items))
	for _, it := range r.items {
		source := it.Source
		if source == "" {
			source = OtherSource
		}
		if filter.Source != "" && source != filter.Source {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.matching(filter)
	if offset >= int64(len(all)) {
		return []Contact{}, nil
	}
	end := offset + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (r *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return Contact{}, mongo.ErrNoDocuments
	}
	return it, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	delete(r.items, id)
	return ok, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	welcome []string
	admin   []string
	custom  []CustomEmail
	err     error
}

func (n *fakeNotifier) SendContactWelcome(ctx context.Context, item Contact) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return "", n.err
	}
	n.welcome = append(n.welcome, item.Email)
	return "welcome-" + item.ID, nil
}

func (n *fakeNotifier) SendContactNotification(ctx context.Context, item Contact) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return "", n.err
	}
	n.admin = append(n.admin, item.ID)
	return "admin-" + item.ID, nil
}

func (n *fakeNotifier) SendCustomEmail(ctx context.Context, email CustomEmail) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return "", n.err
	}
	n.custom = append(n.custom, email)
	return "custom-1", nil
}

func newTestHandler(repo Repository, notifier Notifier) (*Handler, http.Handler) {
	svc := NewService(repo, notifier, time.UTC)
	h := NewHandler(svc, validation.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Post("/api/contacts", h.Create)
	r.Get("/api/contacts", h.AdminList)
	r.Delete("/api/contacts/{id}", h.AdminDelete)
	r.Post("/api/contacts/resend-welcome/{id}", h.AdminResendWelcome)
	r.Post("/api/contacts/custom-email", h.AdminCustomEmail)
	return h, r
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

func TestCreateStoresAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	h, router := newTestHandler(repo, notifier)

	rec := serve(router, http.MethodPost, "/api/contacts", `{
		"name": " Meera ",
		"email": "Meera@Example.com",
		"phone": "+91 90000 00000",
		"source": "Careers",
		"resumeLink": "https://drive.example.com/cv",
		"message": "Hello"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	h.Wait()

	var created Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Meera", created.Name)
	assert.Equal(t, "meera@example.com", created.Email)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"meera@example.com"}, notifier.welcome)
	assert.Equal(t, []string{created.ID}, notifier.admin)
}

func TestCreateSurvivesNotificationFailure(t *testing.T) {
	h, router := newTestHandler(newFakeRepo(), &fakeNotifier{err: errors.New("down")})
	defer h.Wait()

	rec := serve(router, http.MethodPost, "/api/contacts", `{"name":"A","email":"a@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(router, http.MethodPost, "/api/contacts", `{"name":"A","email":"a@example.com","resumeLink":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFiltersBySource(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, time.UTC)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, source := range []string{"Home", "Careers", "", "Home"} {
		i := i
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		_, err := svc.Create(context.Background(), CreateRequest{Name: "n", Email: "n@example.com", Source: source})
		require.NoError(t, err)
	}

	items, total, err := svc.List(context.Background(), ListFilter{Source: "Home"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, base.Add(3*time.Minute), items[0].CreatedAt)

	_, total, err = svc.List(context.Background(), ListFilter{Source: OtherSource}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.List(context.Background(), ListFilter{Source: "All"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}

func TestAdminMailEndpoints(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	h, router := newTestHandler(repo, notifier)
	defer h.Wait()

	item, err := h.service.Create(context.Background(), CreateRequest{Name: "n", Email: "n@example.com"})
	require.NoError(t, err)

	rec := serve(router, http.MethodPost, "/api/contacts/resend-welcome/"+item.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "welcome-"+item.ID)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "/api/contacts/resend-welcome/nope", "").Code)

	rec = serve(router, http.MethodPost, "/api/contacts/custom-email", `{"toEmail":"n@example.com","subject":"Hi","message":"line one\nline two"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	notifier.mu.Lock()
	require.Len(t, notifier.custom, 1)
	assert.Equal(t, "line one\nline two", notifier.custom[0].Message)
	notifier.mu.Unlock()

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/contacts/custom-email", `{"toEmail":"n@example.com"}`).Code)

	notifier.mu.Lock()
	notifier.err = errors.New("rejected")
	notifier.mu.Unlock()
	assert.Equal(t, http.StatusBadGateway, serve(router, http.MethodPost, "/api/contacts/resend-welcome/"+item.ID, "").Code)
}

func TestAdminMailDisabledAndDelete(t *testing.T) {
	repo := newFakeRepo()
	h, router := newTestHandler(repo, nil)
	item, err := h.service.Create(context.Background(), CreateRequest{Name: "n", Email: "n@example.com"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodPost, "/api/contacts/resend-welcome/"+item.ID, "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodPost, "/api/contacts/custom-email", `{"toEmail":"n@example.com","subject":"s","message":"m"}`).Code)

	rec := serve(router, http.MethodGet, "/api/contacts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodDelete, "/api/contacts/"+item.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/api/contacts/"+item.ID, "").Code)
}
