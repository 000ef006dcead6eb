// Package interviewer manages interviewer profiles, weekly availability and rates.
package interviewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"interviewhub/models"
	"interviewhub/services/availability"
	"interviewhub/services/storage"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxSkills       = 20
)

var (
	ErrInvalidProfile  = errors.New("invalid interviewer profile")
	ErrInvalidRate     = errors.New("hourly rate must be a positive amount")
	ErrInvalidCurrency = errors.New("currency must be a three-letter ISO code")
	ErrNoStorage       = errors.New("file storage is not configured")
)

type Store interface {
	GetByID(ctx context.Context, id string) (*models.Interviewer, error)
	List(ctx context.Context, skill string, limit, skip int64) ([]models.Interviewer, error)
	UpsertProfile(ctx context.Context, id string, in models.InterviewerProfileInput) (*models.Interviewer, error)
	UpdateAvailability(ctx context.Context, id string, rules []models.AvailabilityRule) (*models.Interviewer, error)
	UpdateRate(ctx context.Context, id string, hourlyRate float64, currency string) (*models.Interviewer, error)
	SetProfileImage(ctx context.Context, id, url string) (*models.Interviewer, error)
}

type Service struct {
	Store   Store
	Storage storage.StorageService // optional
	Logger  *zap.Logger
}

func NewService(store Store, files storage.StorageService, logger *zap.Logger) *Service {
	return &Service{Store: store, Storage: files, Logger: logger}
}

func (s *Service) GetInterviewer(ctx context.Context, id string) (*models.Interviewer, error) {
	return s.Store.GetByID(ctx, id)
}

// ListInterviewers pages through interviewers by rating. page starts at 1.
func (s *Service) ListInterviewers(ctx context.Context, skill string, page, pageSize int) ([]models.Interviewer, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return s.Store.List(ctx, strings.ToLower(strings.TrimSpace(skill)), int64(pageSize), int64((page-1)*pageSize))
}

func (s *Service) UpsertProfile(ctx context.Context, id string, in models.InterviewerProfileInput) (*models.Interviewer, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if len(in.Skills) > maxSkills {
		return nil, fmt.Errorf("%w: at most %d skills", ErrInvalidProfile, maxSkills)
	}
	in.Skills = normalizeSkills(in.Skills)
	for _, d := range in.SessionDurations {
		if d <= 0 || d%availability.SlotMinutes != 0 {
			return nil, fmt.Errorf("%w: session lengths must be positive multiples of %d minutes", ErrInvalidProfile, availability.SlotMinutes)
		}
	}

	iv, err := s.Store.UpsertProfile(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Interviewer profile saved", zap.String("interviewerID", id))
	return iv, nil
}

// UpdateAvailability replaces the weekly rules after validating them.
func (s *Service) UpdateAvailability(ctx context.Context, id string, rules []models.AvailabilityRule) (*models.Interviewer, error) {
	if err := availability.ValidateRules(rules); err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []models.AvailabilityRule{}
	}
	iv, err := s.Store.UpdateAvailability(ctx, id, rules)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Availability updated", zap.String("interviewerID", id), zap.Int("rules", len(rules)))
	return iv, nil
}

func (s *Service) UpdateRate(ctx context.Context, id string, in models.RateInput) (*models.Interviewer, error) {
	if in.HourlyRate <= 0 {
		return nil, ErrInvalidRate
	}
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}
	return s.Store.UpdateRate(ctx, id, in.HourlyRate, currency)
}

// UploadProfileImage stores the image under the interviewer's id, so a new
// upload replaces the previous one.
func (s *Service) UploadProfileImage(ctx context.Context, id string, file io.Reader) (*models.Interviewer, error) {
	if s.Storage == nil {
		return nil, ErrNoStorage
	}
	if _, err := s.Store.GetByID(ctx, id); err != nil {
		return nil, err
	}
	uploaded, err := s.Storage.UploadFile(ctx, file, storage.FolderProfileImages, id)
	if err != nil {
		return nil, err
	}
	return s.Store.SetProfileImage(ctx, id, uploaded.URL)
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		sk = strings.ToLower(strings.TrimSpace(sk))
		if sk == "" || seen[sk] {
			continue
		}
		seen[sk] = true
		out = append(out, sk)
	}
	return out
}
