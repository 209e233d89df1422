package inquiries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"nextglide-backend/internal/offerings"
)

var (
	ErrNotFound         = errors.New("inquiry not found")
	ErrOfferingRequired = errors.New("offering id is required")
	ErrOfferingNotFound = errors.New("offering not found")
	ErrPhoneRequired    = errors.New("phone is required")
	ErrMailerDisabled   = errors.New("mailer not configured")
	ErrSendFailed       = errors.New("email delivery failed")
)

type Notifier interface {
	SendInquiryReceipt(ctx context.Context, item Inquiry) (string, error)
	SendInquiryNotification(ctx context.Context, item Inquiry) (string, error)
}

// OfferingLookup resolves the offering an inquiry refers to.
type OfferingLookup interface {
	GetByID(ctx context.Context, id string) (offerings.Offering, error)
}

type Service struct {
	kind     offerings.Kind
	repo     Repository
	lookup   OfferingLookup
	notifier Notifier
	location *time.Location
	now      func() time.Time
}

// NewService accepts a nil lookup (the offering name from the request is
// trusted) and a nil notifier (no emails are sent).
func NewService(kind offerings.Kind, repo Repository, lookup OfferingLookup, notifier Notifier, location *time.Location) *Service {
	return &Service{
		kind:     kind,
		repo:     repo,
		lookup:   lookup,
		notifier: notifier,
		location: location,
		now:      time.Now,
	}
}

func (s *Service) Kind() offerings.Kind { return s.kind }

func (s *Service) Create(ctx context.Context, req CreateRequest) (Inquiry, error) {
	offeringID, offeringName := s.offeringRef(req)
	if offeringID == "" {
		return Inquiry{}, ErrOfferingRequired
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		phone = strings.TrimSpace(req.ContactNumber)
	}
	if phone == "" {
		return Inquiry{}, ErrPhoneRequired
	}

	if s.lookup != nil {
		offering, err := s.lookup.GetByID(ctx, offeringID)
		if err != nil {
			if errors.Is(err, offerings.ErrNotFound) {
				return Inquiry{}, ErrOfferingNotFound
			}
			return Inquiry{}, err
		}
		offeringName = offering.Name
	}

	responses := make([]CustomResponse, 0, len(req.CustomResponses))
	for _, cr := range req.CustomResponses {
		cr.Question = strings.TrimSpace(cr.Question)
		responses = append(responses, cr)
	}

	item := Inquiry{
		ID:              primitive.NewObjectID().Hex(),
		Kind:            s.kind,
		OfferingID:      offeringID,
		OfferingName:    offeringName,
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           phone,
		Company:         strings.TrimSpace(req.Company),
		EstimatedBudget: strings.TrimSpace(req.EstimatedBudget),
		Source:          strings.TrimSpace(req.Source),
		Requirements:    strings.TrimSpace(req.Requirements),
		CustomResponses: responses,
		CreatedAt:       s.now().In(s.location),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Inquiry{}, err
	}
	return item, nil
}

func (s *Service) offeringRef(req CreateRequest) (string, string) {
	id := strings.TrimSpace(req.OfferingID)
	var name string
	switch s.kind {
	case offerings.KindSolution:
		if id == "" {
			id = strings.TrimSpace(req.SolutionID)
		}
		name = strings.TrimSpace(req.SolutionName)
	case offerings.KindService:
		if id == "" {
			id = strings.TrimSpace(req.ServiceID)
		}
		name = strings.TrimSpace(req.ServiceName)
	}
	return id, name
}

// ListAdmin reads the page and the total concurrently.
func (s *Service) ListAdmin(ctx context.Context, filter ListFilter, limit, offset int64) ([]Inquiry, int64, error) {
	filter.OfferingID = strings.TrimSpace(filter.OfferingID)

	var (
		items []Inquiry
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(gctx, filter, limit, offset)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Inquiry, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Inquiry{}, ErrNotFound
		}
		return Inquiry{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Resend sends the applicant receipt again and waits for the result.
func (s *Service) Resend(ctx context.Context, id string) (Inquiry, string, error) {
	if s.notifier == nil {
		return Inquiry{}, "", ErrMailerDisabled
	}
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return Inquiry{}, "", err
	}
	messageID, err := s.notifier.SendInquiryReceipt(ctx, item)
	if err != nil {
		return Inquiry{}, "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return item, messageID, nil
}

func (s *Service) NotifyAdmin(ctx context.Context, item Inquiry) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendInquiryNotification(ctx, item)
	return err
}

func (s *Service) NotifyApplicant(ctx context.Context, item Inquiry) error {
	if s.notifier == nil || item.Email == "" {
		return nil
	}
	_, err := s.notifier.SendInquiryReceipt(ctx, item)
	return err
}
