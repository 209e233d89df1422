package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("job not found")
	ErrFormNotFound  = errors.New("application form not found")
	ErrTitleRequired = errors.New("title is required")
)

type Service struct {
	repo     Repository
	location *time.Location
	now      func() time.Time
	newID    func() string
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context) ([]Job, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req JobRequest) (Job, error) {
	now := s.now().In(s.location)
	item := req.toJob()
	if item.Title == "" {
		return Job{}, ErrTitleRequired
	}
	item.ID = primitive.NewObjectID().Hex()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.repo.Create(ctx, item); err != nil {
		return Job{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req JobRequest) (Job, error) {
	id = strings.TrimSpace(id)
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}

	item := req.toJob()
	if item.Title == "" {
		return Job{}, ErrTitleRequired
	}
	item.ID = previous.ID
	item.CreatedAt = previous.CreatedAt
	item.UpdatedAt = s.now().In(s.location)

	if err := s.repo.Replace(ctx, item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return item, nil
}

// Delete removes the posting and its application form.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return s.repo.DeleteForm(ctx, id)
}

// Seed upserts a posting by title.
func (s *Service) Seed(ctx context.Context, req JobRequest) (bool, error) {
	now := s.now().In(s.location)
	item := req.toJob()
	if item.Title == "" {
		return false, ErrTitleRequired
	}
	item.ID = primitive.NewObjectID().Hex()
	item.CreatedAt = now
	item.UpdatedAt = now
	return s.repo.UpsertByTitle(ctx, item)
}

func (s *Service) GetForm(ctx context.Context, jobID string) (ApplicationForm, error) {
	form, err := s.repo.GetForm(ctx, strings.TrimSpace(jobID))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ApplicationForm{}, ErrFormNotFound
		}
		return ApplicationForm{}, err
	}
	if form.Fields == nil {
		form.Fields = []FormField{}
	}
	return form, nil
}

// SaveForm replaces the form of an existing job, creating it on first save.
func (s *Service) SaveForm(ctx context.Context, req FormRequest) (ApplicationForm, error) {
	jobID := strings.TrimSpace(req.JobID)
	if _, err := s.repo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ApplicationForm{}, ErrNotFound
		}
		return ApplicationForm{}, err
	}

	fields := make([]FormField, 0, len(req.Fields))
	for _, f := range req.Fields {
		f.ID = strings.TrimSpace(f.ID)
		if f.ID == "" {
			f.ID = "field_" + s.newID()
		}
		f.Label = strings.TrimSpace(f.Label)
		f.Type = strings.TrimSpace(f.Type)
		if f.Type == "" {
			f.Type = "text"
		}
		f.Placeholder = strings.TrimSpace(f.Placeholder)
		f.Options = cleanOptions(f.Options)
		fields = append(fields, f)
	}

	return s.repo.UpsertForm(ctx, ApplicationForm{
		ID:        primitive.NewObjectID().Hex(),
		JobID:     jobID,
		Fields:    fields,
		UpdatedAt: s.now().In(s.location),
	})
}

func (req JobRequest) toJob() Job {
	item := Job{
		Title:       strings.TrimSpace(req.Title),
		Department:  strings.TrimSpace(req.Department),
		Location:    strings.TrimSpace(req.Location),
		Type:        strings.TrimSpace(req.Type),
		Experience:  strings.TrimSpace(req.Experience),
		Description: strings.TrimSpace(req.Description),
	}
	if item.Type == "" {
		item.Type = DefaultType
	}
	return item
}

func cleanOptions(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, o := range in {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
