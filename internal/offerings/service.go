package offerings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nextglide-backend/internal/sections"
	"nextglide-backend/internal/utils"
)

var (
	ErrNotFound        = errors.New("offering not found")
	ErrSlugExists      = errors.New("slug already exists")
	ErrInvalidSlug     = errors.New("invalid slug")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidSections = errors.New("invalid dynamic sections")
)

type Service struct {
	kind     Kind
	repo     Repository
	location *time.Location
	now      func() time.Time
}

func NewService(kind Kind, repo Repository, location *time.Location) *Service {
	return &Service{
		kind:     kind,
		repo:     repo,
		location: location,
		now:      time.Now,
	}
}

func (s *Service) Kind() Kind { return s.kind }

func (s *Service) Create(ctx context.Context, req Request) (Offering, error) {
	item, err := s.newOffering(req)
	if err != nil {
		return Offering{}, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Offering{}, ErrSlugExists
		}
		return Offering{}, err
	}
	return item, nil
}

func (s *Service) newOffering(req Request) (Offering, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return Offering{}, ErrNameRequired
	}

	var item Offering
	if err := req.apply(&item); err != nil {
		return Offering{}, err
	}
	slug := ""
	if req.Slug != nil {
		slug = *req.Slug
	}
	item.Slug = normalizeSlug(slug, item.Name)
	if item.Slug == "" {
		return Offering{}, ErrInvalidSlug
	}
	fillEmptyLists(&item)

	now := s.now().In(s.location)
	item.ID = primitive.NewObjectID().Hex()
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

// Update applies whole-field replacement and saves the full document. The
// previous version is returned so callers can invalidate its slug.
func (s *Service) Update(ctx context.Context, id string, req Request) (Offering, Offering, error) {
	id = strings.TrimSpace(id)
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Offering{}, Offering{}, ErrNotFound
		}
		return Offering{}, Offering{}, err
	}

	item := previous
	item.DynamicSections = sections.Clone(previous.DynamicSections)
	if err := req.apply(&item); err != nil {
		return Offering{}, Offering{}, err
	}
	if strings.TrimSpace(item.Name) == "" {
		return Offering{}, Offering{}, ErrNameRequired
	}
	if req.Slug != nil {
		item.Slug = utils.Slugify(*req.Slug)
		if item.Slug == "" {
			return Offering{}, Offering{}, ErrInvalidSlug
		}
	}
	fillEmptyLists(&item)
	item.ID = previous.ID
	item.CreatedAt = previous.CreatedAt
	item.UpdatedAt = s.now().In(s.location)

	if err := s.repo.Replace(ctx, item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Offering{}, Offering{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Offering{}, Offering{}, ErrSlugExists
		}
		return Offering{}, Offering{}, err
	}
	return item, previous, nil
}

func (s *Service) Delete(ctx context.Context, id string) (Offering, error) {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Offering{}, ErrNotFound
		}
		return Offering{}, err
	}
	return deleted, nil
}

func (s *Service) List(ctx context.Context) ([]Offering, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListSummaries(ctx context.Context) ([]Summary, error) {
	return s.repo.ListSummaries(ctx)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Offering, error) {
	item, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Offering{}, ErrNotFound
		}
		return Offering{}, err
	}
	return item, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Offering, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Offering{}, ErrNotFound
		}
		return Offering{}, err
	}
	return item, nil
}

// RenderSections returns the public view of the visible dynamic sections.
func (s *Service) RenderSections(ctx context.Context, slug string) ([]sections.Rendered, error) {
	item, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return sections.Render(item.DynamicSections)
}

// Seed inserts the record unless one with the same slug exists.
func (s *Service) Seed(ctx context.Context, req Request) (bool, error) {
	item, err := s.newOffering(req)
	if err != nil {
		return false, err
	}
	return s.repo.InsertIfMissing(ctx, item)
}

// apply copies every present member of req onto item. Slug is handled by
// the caller since create and update derive it differently.
func (req Request) apply(item *Offering) error {
	setString(&item.Name, req.Name)
	setString(&item.Category, req.Category)
	setString(&item.ShortDescription, req.ShortDescription)
	setString(&item.DetailedDescription, req.DetailedDescription)
	setString(&item.StartingPrice, req.StartingPrice)
	setString(&item.CTAText, req.CTAText)
	setString(&item.SecondaryCTA, req.SecondaryCTA)
	setString(&item.Timeline, req.Timeline)
	setString(&item.PricingModel, req.PricingModel)
	setString(&item.YearsExperience, req.YearsExperience)
	setString(&item.ProjectsCompleted, req.ProjectsCompleted)
	setString(&item.SecurityDetails, req.SecurityDetails)
	setString(&item.SupportDetails, req.SupportDetails)
	setString(&item.NextSteps, req.NextSteps)

	setList(&item.ProblemsSolved, req.ProblemsSolved)
	setList(&item.KeyFeatures, req.KeyFeatures)
	setList(&item.TargetAudience, req.TargetAudience)
	setList(&item.IndustriesServed, req.IndustriesServed)
	setList(&item.Technologies, req.Technologies)
	setList(&item.CoverageAreas, req.CoverageAreas)
	setList(&item.CaseStudies, req.CaseStudies)
	setList(&item.Certifications, req.Certifications)
	setList(&item.Partnerships, req.Partnerships)

	setBool(&item.ConsultationAvailability, req.ConsultationAvailability)
	setBool(&item.IsOverviewVisible, req.IsOverviewVisible)
	setBool(&item.IsOfferingVisible, req.IsOfferingVisible)
	setBool(&item.IsExperienceVisible, req.IsExperienceVisible)
	setBool(&item.IsDeliveryVisible, req.IsDeliveryVisible)
	setBool(&item.IsTrustVisible, req.IsTrustVisible)
	setBool(&item.IsCTAVisible, req.IsCTAVisible)
	setBool(&item.IsTestimonialsVisible, req.IsTestimonialsVisible)
	setBool(&item.IsFAQsVisible, req.IsFAQsVisible)

	if req.Testimonials != nil {
		item.Testimonials = append([]Testimonial{}, *req.Testimonials...)
	}
	if req.FAQs != nil {
		item.FAQs = append([]FAQ{}, *req.FAQs...)
	}
	if req.InquiryFormFields != nil {
		fields := make([]InquiryFormField, 0, len(*req.InquiryFormFields))
		for _, f := range *req.InquiryFormFields {
			f.Label = strings.TrimSpace(f.Label)
			f.Options = cleanList(f.Options)
			fields = append(fields, f)
		}
		item.InquiryFormFields = fields
	}
	if req.DynamicSections != nil {
		normalized, err := sections.Normalize(*req.DynamicSections)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSections, err)
		}
		item.DynamicSections = normalized
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setList(dst *[]string, src *[]string) {
	if src != nil {
		*dst = cleanList(*src)
	}
}

func setBool(dst **bool, src *bool) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// fillEmptyLists keeps arrays encoded as [] rather than null.
func fillEmptyLists(item *Offering) {
	for _, l := range []*[]string{
		&item.ProblemsSolved, &item.KeyFeatures, &item.TargetAudience, &item.IndustriesServed,
		&item.Technologies, &item.CoverageAreas, &item.CaseStudies, &item.Certifications, &item.Partnerships,
	} {
		if *l == nil {
			*l = []string{}
		}
	}
	if item.Testimonials == nil {
		item.Testimonials = []Testimonial{}
	}
	if item.FAQs == nil {
		item.FAQs = []FAQ{}
	}
	if item.InquiryFormFields == nil {
		item.InquiryFormFields = []InquiryFormField{}
	}
	if item.DynamicSections == nil {
		item.DynamicSections = []sections.Section{}
	}
}

func normalizeSlug(slug, name string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = strings.TrimSpace(name)
	}
	return utils.Slugify(raw)
}
