// internal/users/handlers_test.go
package users

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexora-app/nexora-backend/internal/auth"
	"github.com/nexora-app/nexora-backend/internal/common/utils"
)

const testSecret = "handler-test-secret"

// fakeUploader persists URLs through the repository the way the real upload
// service does, so updated profiles reflect the new images.
type fakeUploader struct {
	repo    Repository
	avatars int
	banners int
}

func (u *fakeUploader) UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	u.avatars++
	url := "/uploads/avatars/" + header.Filename
	return url, u.repo.UpdateAvatarURL(ctx, userID, url)
}

func (u *fakeUploader) UploadBanner(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	u.banners++
	url := "/uploads/banners/" + header.Filename
	return url, u.repo.UpdateBannerURL(ctx, userID, url)
}

func newTestRouter(t *testing.T, userIDs ...int64) (*mux.Router, *fakeRepository, *fakeUploader) {
	t.Helper()
	repo := newFakeRepository(userIDs...)
	uploader := &fakeUploader{repo: repo}
	svc := NewService(repo, &fakeFollowNotifier{})
	router := mux.NewRouter()
	RegisterRoutes(router, NewHandler(svc, uploader), auth.NewMiddleware(auth.NewService(testSecret)))
	return router, repo, uploader
}

func bearerToken(t *testing.T, userID int64) string {
	t.Helper()
	now := time.Now()
	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    userID,
		Username:  "tester",
		Type:      "access",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}, testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSONRequest(router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	router, _, _ := newTestRouter(t, 1)

	rec := doJSONRequest(router, "PUT", "/api/v1/users/1", "", UpdateProfileRequest{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfileOtherUserForbidden(t *testing.T) {
	router, _, _ := newTestRouter(t, 1, 2)

	name := "Hijacked"
	rec := doJSONRequest(router, "PUT", "/api/v1/users/2", bearerToken(t, 1),
		UpdateProfileRequest{DisplayName: &name})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProfilePrivacyLevel(t *testing.T) {
	router, repo, _ := newTestRouter(t, 1)

	privacy := "private"
	rec := doJSONRequest(router, "PUT", "/api/v1/users/1", bearerToken(t, 1),
		UpdateProfileRequest{PrivacyLevel: &privacy})
	require.Equal(t, http.StatusOK, rec.Code)

	var profile UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "private", profile.PrivacyLevel)

	user, err := repo.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "private", user.PrivacyLevel)
}

func TestGetProfileExposesPrivacyLevel(t *testing.T) {
	router, _, _ := newTestRouter(t, 1)

	rec := doJSONRequest(router, "GET", "/api/v1/users/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "public", profile.PrivacyLevel)
}

// multipartProfileBody builds a form with text fields plus an optional image
// file per named field.
func multipartProfileBody(t *testing.T, fields map[string]string, files ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for _, field := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+field+`.png"`)
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUpdateProfileMultipartWithAvatar(t *testing.T) {
	router, repo, uploader := newTestRouter(t, 1)

	body, contentType := multipartProfileBody(t,
		map[string]string{"display_name": "Multipart Name", "bio": "new bio"}, "avatar")
	req := httptest.NewRequest("PUT", "/api/v1/users/1", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Multipart Name", profile.DisplayName)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "new bio", *profile.Bio)
	require.NotNil(t, profile.AvatarURL)
	assert.Equal(t, "/uploads/avatars/avatar.png", *profile.AvatarURL)

	assert.Equal(t, 1, uploader.avatars)
	assert.Equal(t, 0, uploader.banners)

	user, err := repo.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, user.AvatarURL)
	assert.Equal(t, "/uploads/avatars/avatar.png", *user.AvatarURL)
}

func TestUpdateProfileMultipartBannerOnly(t *testing.T) {
	router, repo, uploader := newTestRouter(t, 1)

	body, contentType := multipartProfileBody(t, nil, "banner")
	req := httptest.NewRequest("PUT", "/api/v1/users/1", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 0, uploader.avatars)
	assert.Equal(t, 1, uploader.banners)

	user, err := repo.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, user.BannerURL)
	assert.Equal(t, "/uploads/banners/banner.png", *user.BannerURL)
}
