package offerings

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"nextglide-backend/internal/sections"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[string]Offering
	err   error
}

func newFakeRepo(items ...Offering) *fakeRepo {
	r := &fakeRepo{items: make(map[string]Offering)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func duplicateKey() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
}

func (r *fakeRepo) slugTaken(slug, exceptID string) bool {
	for id, it := range r.items {
		if it.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (r *fakeRepo) Create(ctx context.Context, item Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.slugTaken(item.Slug, "") {
		return duplicateKey()
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeRepo) Replace(ctx context.Context, item Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	if r.slugTaken(item.Slug, item.ID) {
		return duplicateKey()
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return Offering{}, mongo.ErrNoDocuments
	}
	delete(r.items, id)
	return it, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Offering{}, r.err
	}
	it, ok := r.items[id]
	if !ok {
		return Offering{}, mongo.ErrNoDocuments
	}
	return it, nil
}

func (r *fakeRepo) GetBySlug(ctx context.Context, slug string) (Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Offering{}, r.err
	}
	for _, it := range r.items {
		if it.Slug == slug {
			return it, nil
		}
	}
	return Offering{}, mongo.ErrNoDocuments
}

func (r *fakeRepo) List(ctx context.Context) ([]Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Offering, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRepo) ListSummaries(ctx context.Context) ([]Summary, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(items))
	for _, it := range items {
		out = append(out, Summary{Name: it.Name, Slug: it.Slug, Category: it.Category, ShortDescription: it.ShortDescription, KeyFeatures: it.KeyFeatures})
	}
	return out, nil
}

func (r *fakeRepo) InsertIfMissing(ctx context.Context, item Offering) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slugTaken(item.Slug, "") {
		return false, nil
	}
	r.items[item.ID] = item
	return true, nil
}

func strPtr(s string) *string { return &s }

func newTestService(repo Repository) *Service {
	s := NewService(KindSolution, repo, time.UTC)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestCreateDerivesSlugAndFillsLists(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)

	item, err := s.Create(context.Background(), Request{
		Name:        strPtr("  Cloud Migration & Ops "),
		KeyFeatures: &[]string{" Zero downtime ", "", "Rollback"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Cloud Migration & Ops", item.Name)
	assert.Equal(t, "cloud-migration-and-ops", item.Slug)
	assert.Equal(t, []string{"Zero downtime", "Rollback"}, item.KeyFeatures)
	assert.NotNil(t, item.Technologies)
	assert.NotNil(t, item.DynamicSections)
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)

	_, err = s.Create(context.Background(), Request{Name: strPtr("Cloud migration and ops")})
	assert.ErrorIs(t, err, ErrSlugExists)

	_, err = s.Create(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = s.Create(context.Background(), Request{Name: strPtr("x"), Slug: strPtr("!!!")})
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestUpdateReplacesPresentFieldsWholesale(t *testing.T) {
	visible := false
	stored := Offering{
		ID:          "abc",
		Name:        "Data Platform",
		Slug:        "data-platform",
		Category:    "Data",
		KeyFeatures: []string{"a", "b"},
		DynamicSections: []sections.Section{
			{Title: "One", LayoutType: sections.LayoutGrid2, Fields: []sections.Field{{Label: "x", FieldType: sections.FieldText, Value: sections.StringValue("1")}}},
			{Title: "Two", LayoutType: sections.LayoutCards, IsVisible: &visible, Fields: []sections.Field{}},
		},
		InquiryFormFields: []InquiryFormField{{Label: "Team size", FieldType: "text"}},
		CreatedAt:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	repo := newFakeRepo(stored)
	s := newTestService(repo)

	onlySecond := []sections.Section{{Title: "Replaced", LayoutType: sections.LayoutChecklist, Fields: []sections.Field{
		{Label: "Ready", FieldType: sections.FieldBoolean, Value: sections.BoolValue(true)},
	}}}
	item, previous, err := s.Update(context.Background(), "abc", Request{
		KeyFeatures:     &[]string{"c"},
		DynamicSections: &onlySecond,
	})
	require.NoError(t, err)

	assert.Equal(t, "data-platform", previous.Slug)
	assert.Equal(t, []string{"c"}, item.KeyFeatures)
	assert.Equal(t, "Data", item.Category, "absent field keeps stored value")
	assert.Equal(t, stored.InquiryFormFields, item.InquiryFormFields)
	assert.Equal(t, stored.CreatedAt, item.CreatedAt)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), item.UpdatedAt)
	if diff := cmp.Diff(onlySecond, item.DynamicSections); diff != "" {
		t.Fatalf("sections not replaced wholesale (-want +got):\n%s", diff)
	}

	saved, err := repo.GetByID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Len(t, saved.DynamicSections, 1)
}

func TestUpdateFormFieldsOnly(t *testing.T) {
	stored := Offering{
		ID:   "svc1",
		Name: "SEO Audit",
		Slug: "seo-audit",
		DynamicSections: []sections.Section{
			{Title: "Keep", LayoutType: sections.LayoutFullWidth, Fields: []sections.Field{}},
		},
	}
	repo := newFakeRepo(stored)
	s := newTestService(repo)

	item, _, err := s.Update(context.Background(), "svc1", Request{
		InquiryFormFields: &[]InquiryFormField{{Label: " Website URL ", FieldType: "text", Required: true, Options: []string{" ", "a"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Website URL", item.InquiryFormFields[0].Label)
	assert.Equal(t, []string{"a"}, item.InquiryFormFields[0].Options)
	assert.Equal(t, stored.DynamicSections, item.DynamicSections)
}

func TestUpdateCoercesSectionValues(t *testing.T) {
	repo := newFakeRepo(Offering{ID: "1", Name: "A", Slug: "a"})
	s := newTestService(repo)

	in := []sections.Section{{Title: "Stack", Fields: []sections.Field{
		{Label: "Languages", FieldType: sections.FieldArray, Value: sections.StringValue("Go,\nTypeScript")},
	}}}
	item, _, err := s.Update(context.Background(), "1", Request{DynamicSections: &in})
	require.NoError(t, err)

	f := item.DynamicSections[0].Fields[0]
	assert.Equal(t, []string{"Go", "TypeScript"}, f.Value.Items())
	assert.Equal(t, sections.LayoutFullWidth, item.DynamicSections[0].LayoutType)

	bad := []sections.Section{{LayoutType: "carousel"}}
	_, _, err = s.Update(context.Background(), "1", Request{DynamicSections: &bad})
	assert.ErrorIs(t, err, ErrInvalidSections)
}

func TestUpdateErrors(t *testing.T) {
	repo := newFakeRepo(
		Offering{ID: "1", Name: "A", Slug: "a"},
		Offering{ID: "2", Name: "B", Slug: "b"},
	)
	s := newTestService(repo)
	ctx := context.Background()

	_, _, err := s.Update(ctx, "missing", Request{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = s.Update(ctx, "2", Request{Slug: strPtr("a")})
	assert.ErrorIs(t, err, ErrSlugExists)

	_, _, err = s.Update(ctx, "2", Request{Name: strPtr("  ")})
	assert.ErrorIs(t, err, ErrNameRequired)

	repo.err = errors.New("boom")
	_, _, err = s.Update(ctx, "1", Request{})
	assert.EqualError(t, err, "boom")
}

func TestDeleteAndLookup(t *testing.T) {
	repo := newFakeRepo(Offering{ID: "1", Name: "A", Slug: "a"})
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a", deleted.Slug)

	_, err = s.Delete(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedSkipsExistingSlug(t *testing.T) {
	repo := newFakeRepo(Offering{ID: "1", Name: "A", Slug: "a"})
	s := newTestService(repo)

	inserted, err := s.Seed(context.Background(), Request{Name: strPtr("A")})
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = s.Seed(context.Background(), Request{Name: strPtr("B")})
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("services")
	require.NoError(t, err)
	assert.Equal(t, KindService, k)
	assert.Equal(t, "solutions", KindSolution.Plural())

	_, err = ParseKind("products")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
