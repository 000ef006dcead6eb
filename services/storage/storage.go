package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/asset"
)

// Upload folders.
const (
	FolderProfileImages = "interviewhub/profile_images"
	FolderResumes       = "interviewhub/resumes"
)

// UploadedFile is a stored asset.
type UploadedFile struct {
	PublicID     string `json:"publicId"`
	URL          string `json:"url"`
	ResourceType string `json:"resourceType"`
}

// StorageService defines the interface for storage operations.
type StorageService interface {
	UploadFile(ctx context.Context, file io.Reader, folder, publicID string) (*UploadedFile, error)
	UploadPrivateFile(ctx context.Context, file io.Reader, folder, publicID string) (*UploadedFile, error)
	DeleteFile(ctx context.Context, publicID string) error
	GetDownloadURL(resourceType, publicID string) (string, error)
	GetSecureDownloadURL(resourceType, publicID, format string, expires time.Duration) (string, error)
}

// Uploader is satisfied by cloudinary's *uploader.API.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
	PrivateDownloadURL(params uploader.PrivateDownloadURLParams) (string, error)
}

// CloudinaryStorage implements StorageService on Cloudinary.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	upload Uploader
	now    func() time.Time
}

// NewStorageService creates a Cloudinary backed StorageService.
func NewStorageService(cld *cloudinary.Cloudinary) *CloudinaryStorage {
	return &CloudinaryStorage{
		cld:    cld,
		upload: &cld.Upload,
		now:    time.Now,
	}
}

// UploadFile stores file under folder. A non-empty publicID overwrites the
// previous asset with that id, which keeps one profile image per user.
func (s *CloudinaryStorage) UploadFile(ctx context.Context, file io.Reader, folder, publicID string) (*UploadedFile, error) {
	return s.store(ctx, file, uploadParams(folder, publicID))
}

// UploadPrivateFile stores an authenticated asset. It can only be fetched
// through GetSecureDownloadURL.
func (s *CloudinaryStorage) UploadPrivateFile(ctx context.Context, file io.Reader, folder, publicID string) (*UploadedFile, error) {
	params := uploadParams(folder, publicID)
	params.Type = api.Authenticated
	return s.store(ctx, file, params)
}

func uploadParams(folder, publicID string) uploader.UploadParams {
	params := uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	}
	if publicID != "" {
		params.PublicID = publicID
		params.Overwrite = api.Bool(true)
		params.Invalidate = api.Bool(true)
	}
	return params
}

func (s *CloudinaryStorage) store(ctx context.Context, file io.Reader, params uploader.UploadParams) (*UploadedFile, error) {
	result, err := s.upload.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload file: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, errors.New("no public ID returned")
	}
	return &UploadedFile{PublicID: result.PublicID, URL: result.SecureURL, ResourceType: result.ResourceType}, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *CloudinaryStorage) DeleteFile(ctx context.Context, publicID string) error {
	result, err := s.upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("failed to delete file: %s", result.Error.Message)
	}
	return nil
}

// GetDownloadURL constructs a public URL for a file based on its resource type.
func (s *CloudinaryStorage) GetDownloadURL(resourceType, publicID string) (string, error) {
	var (
		a   *asset.Asset
		err error
	)
	switch resourceType {
	case "image":
		a, err = s.cld.Image(publicID)
	case "video":
		a, err = s.cld.Video(publicID)
	default:
		a, err = s.cld.Media(publicID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get asset: %w", err)
	}
	return a.String()
}

// GetSecureDownloadURL returns a signed download link for an authenticated
// asset that stops working after expires.
func (s *CloudinaryStorage) GetSecureDownloadURL(resourceType, publicID, format string, expires time.Duration) (string, error) {
	expiresAt := s.now().Add(expires)
	link, err := s.upload.PrivateDownloadURL(uploader.PrivateDownloadURLParams{
		PublicID:     publicID,
		Format:       format,
		DeliveryType: api.Authenticated,
		ExpiresAt:    &expiresAt,
		ResourceType: api.AssetType(resourceType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL: %w", err)
	}
	return link, nil
}
