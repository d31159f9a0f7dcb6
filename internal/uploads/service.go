// internal/uploads/service.go
package uploads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedType = errors.New("unsupported file type: only JPEG, PNG and GIF are allowed")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ProfileUpdater is the slice of the users repository the upload service
// needs to persist new image URLs.
type ProfileUpdater interface {
	UpdateAvatarURL(ctx context.Context, userID int64, url string) error
	UpdateBannerURL(ctx context.Context, userID int64, url string) error
}

type Service struct {
	storage  Storage
	profiles ProfileUpdater
	maxSize  int64
}

func NewService(storage Storage, profiles ProfileUpdater, maxSize int64) *Service {
	return &Service{storage: storage, profiles: profiles, maxSize: maxSize}
}

func (s *Service) validate(header *multipart.FileHeader) error {
	if header.Size > s.maxSize {
		return ErrFileTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return ErrUnsupportedType
	}
	return nil
}

func (s *Service) UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := s.validate(header); err != nil {
		return "", err
	}

	url, err := s.storage.Save(ctx, file, header, "avatars")
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.profiles.UpdateAvatarURL(ctx, userID, url); err != nil {
		// Orphaned object cleanup is best-effort
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			log.Printf("Failed to clean up orphaned avatar %s: %v", url, delErr)
		}
		return "", err
	}

	recordUpload("avatar")
	return url, nil
}

func (s *Service) UploadBanner(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := s.validate(header); err != nil {
		return "", err
	}

	url, err := s.storage.Save(ctx, file, header, "banners")
	if err != nil {
		return "", fmt.Errorf("failed to store banner: %w", err)
	}

	if err := s.profiles.UpdateBannerURL(ctx, userID, url); err != nil {
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			log.Printf("Failed to clean up orphaned banner %s: %v", url, delErr)
		}
		return "", err
	}

	recordUpload("banner")
	return url, nil
}

// UploadPostMedia stores an image for attachment to a post and returns its
// URL. The caller passes the URL along when creating the post.
func (s *Service) UploadPostMedia(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := s.validate(header); err != nil {
		return "", err
	}

	url, err := s.storage.Save(ctx, file, header, "posts")
	if err != nil {
		return "", fmt.Errorf("failed to store post media: %w", err)
	}

	recordUpload("post_media")
	return url, nil
}
