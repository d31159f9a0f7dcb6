// internal/uploads/service_test.go
package uploads

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	nextID  int
}

func (s *fakeStorage) Save(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	url := fmt.Sprintf("https://cdn.example.com/%s/%d", folder, s.nextID)
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeStorage) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

type fakeProfiles struct {
	avatars map[int64]string
	banners map[int64]string
	fail    bool
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		avatars: make(map[int64]string),
		banners: make(map[int64]string),
	}
}

func (p *fakeProfiles) UpdateAvatarURL(ctx context.Context, userID int64, url string) error {
	if p.fail {
		return fmt.Errorf("user not found")
	}
	p.avatars[userID] = url
	return nil
}

func (p *fakeProfiles) UpdateBannerURL(ctx context.Context, userID int64, url string) error {
	if p.fail {
		return fmt.Errorf("user not found")
	}
	p.banners[userID] = url
	return nil
}

func imageHeader(contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "photo.png",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestUploadAvatarStoresAndUpdatesProfile(t *testing.T) {
	storage := &fakeStorage{}
	profiles := newFakeProfiles()
	svc := NewService(storage, profiles, 5<<20)

	url, err := svc.UploadAvatar(context.Background(), 1, nil, imageHeader("image/png", 1024))
	require.NoError(t, err)

	assert.Equal(t, url, profiles.avatars[1])
	assert.Empty(t, storage.deleted)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := NewService(&fakeStorage{}, newFakeProfiles(), 5<<20)

	_, err := svc.UploadAvatar(context.Background(), 1, nil, imageHeader("image/png", 5<<20+1))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := NewService(&fakeStorage{}, newFakeProfiles(), 5<<20)

	for _, contentType := range []string{"image/webp", "application/pdf", "text/html", ""} {
		_, err := svc.UploadAvatar(context.Background(), 1, nil, imageHeader(contentType, 1024))
		assert.ErrorIs(t, err, ErrUnsupportedType, "content type %q", contentType)
	}
}

func TestUploadAcceptsAllowedTypes(t *testing.T) {
	svc := NewService(&fakeStorage{}, newFakeProfiles(), 5<<20)

	for _, contentType := range []string{"image/jpeg", "image/png", "image/gif"} {
		_, err := svc.UploadPostMedia(context.Background(), 1, nil, imageHeader(contentType, 1024))
		assert.NoError(t, err, "content type %q", contentType)
	}
}

func TestUploadBannerCleansUpOnProfileFailure(t *testing.T) {
	storage := &fakeStorage{}
	profiles := newFakeProfiles()
	profiles.fail = true
	svc := NewService(storage, profiles, 5<<20)

	_, err := svc.UploadBanner(context.Background(), 1, nil, imageHeader("image/png", 1024))
	require.Error(t, err)

	require.Len(t, storage.saved, 1)
	assert.Equal(t, storage.saved, storage.deleted)
}
