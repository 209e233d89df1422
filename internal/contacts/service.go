package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// OtherSource groups contacts submitted without a source.
const OtherSource = "Other"

var (
	ErrNotFound       = errors.New("contact not found")
	ErrMailerDisabled = errors.New("mailer not configured")
	ErrSendFailed     = errors.New("email delivery failed")
)

type Notifier interface {
	SendContactWelcome(ctx context.Context, item Contact) (string, error)
	SendContactNotification(ctx context.Context, item Contact) (string, error)
	SendCustomEmail(ctx context.Context, email CustomEmail) (string, error)
}

type Service struct {
	repo     Repository
	notifier Notifier
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		location: location,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Contact, error) {
	item := Contact{
		ID:         primitive.NewObjectID().Hex(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
		Company:    strings.TrimSpace(req.Company),
		Subject:    strings.TrimSpace(req.Subject),
		Message:    strings.TrimSpace(req.Message),
		Source:     strings.TrimSpace(req.Source),
		Interest:   strings.TrimSpace(req.Interest),
		ResumeLink: strings.TrimSpace(req.ResumeLink),
		CreatedAt:  s.now().In(s.location),
	}
	if item.Subject == "" && item.Interest != "" {
		item.Subject = item.Interest
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Contact{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Contact, int64, error) {
	filter.Source = strings.TrimSpace(filter.Source)
	if strings.EqualFold(filter.Source, "all") {
		filter.Source = ""
	}

	var (
		items []Contact
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

func (s *Service) GetByID(ctx context.Context, id string) (Contact, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
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

func (s *Service) ResendWelcome(ctx context.Context, id string) (Contact, string, error) {
	if s.notifier == nil {
		return Contact{}, "", ErrMailerDisabled
	}
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return Contact{}, "", err
	}
	messageID, err := s.notifier.SendContactWelcome(ctx, item)
	if err != nil {
		return Contact{}, "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return item, messageID, nil
}

func (s *Service) SendCustomEmail(ctx context.Context, email CustomEmail) (string, error) {
	if s.notifier == nil {
		return "", ErrMailerDisabled
	}
	email.ToEmail = strings.TrimSpace(email.ToEmail)
	email.ToName = strings.TrimSpace(email.ToName)
	email.Subject = strings.TrimSpace(email.Subject)
	messageID, err := s.notifier.SendCustomEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return messageID, nil
}

func (s *Service) NotifyAdmin(ctx context.Context, item Contact) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendContactNotification(ctx, item)
	return err
}

func (s *Service) NotifySender(ctx context.Context, item Contact) error {
	if s.notifier == nil || item.Email == "" {
		return nil
	}
	_, err := s.notifier.SendContactWelcome(ctx, item)
	return err
}
