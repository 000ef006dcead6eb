// Package candidate manages candidate profiles and their resumes.
package candidate

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"interviewhub/models"
	"interviewhub/services/storage"

	"go.uber.org/zap"
)

const defaultResumeLinkTTL = 15 * time.Minute

var (
	ErrInvalidProfile = errors.New("candidate name must not be empty")
	ErrNoStorage      = errors.New("file storage is not configured")
)

// Store is satisfied by candidateRepo.CandidateRepository.
type Store interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	Upsert(ctx context.Context, candidate models.Candidate) (*models.Candidate, error)
	SetResume(ctx context.Context, id, publicID, resourceType string) (*models.Candidate, error)
}

type Service struct {
	Store         Store
	Storage       storage.StorageService // optional
	Logger        *zap.Logger
	ResumeLinkTTL time.Duration
}

func NewService(store Store, files storage.StorageService, logger *zap.Logger) *Service {
	return &Service{Store: store, Storage: files, Logger: logger, ResumeLinkTTL: defaultResumeLinkTTL}
}

// GetCandidate returns the profile with a short-lived resume link, if any.
func (s *Service) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	c, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withResumeLink(c), nil
}

// UpsertProfile creates or refreshes the caller's profile. email comes from
// the verified ID token, not the request body.
func (s *Service) UpsertProfile(ctx context.Context, id, email string, in models.CandidateProfileInput) (*models.Candidate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidProfile
	}
	c, err := s.Store.Upsert(ctx, models.Candidate{
		ID:       id,
		Name:     name,
		Email:    email,
		FCMToken: strings.TrimSpace(in.FCMToken),
	})
	if err != nil {
		return nil, err
	}
	return s.withResumeLink(c), nil
}

// UploadResume replaces the candidate's resume with file.
func (s *Service) UploadResume(ctx context.Context, id string, file io.Reader) (*models.Candidate, error) {
	if s.Storage == nil {
		return nil, ErrNoStorage
	}
	if _, err := s.Store.GetByID(ctx, id); err != nil {
		return nil, err
	}
	uploaded, err := s.Storage.UploadPrivateFile(ctx, file, storage.FolderResumes, id)
	if err != nil {
		return nil, err
	}
	c, err := s.Store.SetResume(ctx, id, uploaded.PublicID, uploaded.ResourceType)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Resume uploaded", zap.String("candidateID", id))
	return s.withResumeLink(c), nil
}

// withResumeLink attaches a short-lived download link. A signing failure
// leaves the link empty rather than failing the profile read.
func (s *Service) withResumeLink(c *models.Candidate) *models.Candidate {
	if c.ResumeID == "" || s.Storage == nil {
		return c
	}
	resourceType := c.ResumeType
	if resourceType == "" {
		resourceType = "image"
	}
	link, err := s.Storage.GetSecureDownloadURL(resourceType, c.ResumeID, "pdf", s.ResumeLinkTTL)
	if err != nil {
		s.Logger.Warn("Failed to sign resume link", zap.String("candidateID", c.ID), zap.Error(err))
		return c
	}
	c.ResumeURL = link
	return c
}
