package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pettrack-backend-go/internal/models"
)

// Stub services with overridable function fields. Handlers only see the
// service interfaces, so each test plugs in exactly the behavior it needs.

type stubUserService struct {
	RegisterFn            func(ctx context.Context, req models.RegisterUserRequest, image *multipart.FileHeader) (*models.User, error)
	LoginWithEmailFn      func(ctx context.Context, req models.LoginRequest) (*models.User, error)
	LoginWithPhoneFn      func(ctx context.Context, req models.PhoneLoginRequest) (*models.User, error)
	GoogleAuthFn          func(ctx context.Context, req models.GoogleAuthRequest) (*models.User, error)
	GetByIDFn             func(ctx context.Context, userID string) (*models.User, error)
	ListFn                func(ctx context.Context, page, limit int) ([]*models.User, int, error)
	UpdateFn              func(ctx context.Context, userID string, req models.UpdateUserRequest, image *multipart.FileHeader) (*models.User, error)
	DeleteFn              func(ctx context.Context, userID string) error
	VerifyFn              func(ctx context.Context, userID string) (*models.User, error)
	UpdateNotificationsFn func(ctx context.Context, userID string, prefs models.NotificationPreferences) (*models.NotificationPreferences, error)
}

func (s *stubUserService) Register(ctx context.Context, req models.RegisterUserRequest, image *multipart.FileHeader) (*models.User, error) {
	return s.RegisterFn(ctx, req, image)
}
func (s *stubUserService) LoginWithEmail(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	return s.LoginWithEmailFn(ctx, req)
}
func (s *stubUserService) LoginWithPhone(ctx context.Context, req models.PhoneLoginRequest) (*models.User, error) {
	return s.LoginWithPhoneFn(ctx, req)
}
func (s *stubUserService) GoogleAuth(ctx context.Context, req models.GoogleAuthRequest) (*models.User, error) {
	return s.GoogleAuthFn(ctx, req)
}
func (s *stubUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.GetByIDFn(ctx, userID)
}
func (s *stubUserService) List(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	return s.ListFn(ctx, page, limit)
}
func (s *stubUserService) Update(ctx context.Context, userID string, req models.UpdateUserRequest, image *multipart.FileHeader) (*models.User, error) {
	return s.UpdateFn(ctx, userID, req, image)
}
func (s *stubUserService) Delete(ctx context.Context, userID string) error {
	return s.DeleteFn(ctx, userID)
}
func (s *stubUserService) Verify(ctx context.Context, userID string) (*models.User, error) {
	return s.VerifyFn(ctx, userID)
}
func (s *stubUserService) UpdateNotifications(ctx context.Context, userID string, prefs models.NotificationPreferences) (*models.NotificationPreferences, error) {
	return s.UpdateNotificationsFn(ctx, userID, prefs)
}

type stubPetService struct {
	CreateFn       func(ctx context.Context, req models.CreatePetRequest, image *multipart.FileHeader) (*models.Pet, error)
	GetByIDFn      func(ctx context.Context, petID string) (*models.Pet, error)
	ListFn         func(ctx context.Context, filter models.PetListFilter, page, limit int) ([]*models.Pet, int, error)
	ListByOwnerFn  func(ctx context.Context, ownerID string) ([]*models.Pet, error)
	UpdateFn       func(ctx context.Context, petID string, req models.UpdatePetRequest, image *multipart.FileHeader) (*models.Pet, error)
	DeleteFn       func(ctx context.Context, petID string) error
	UploadPhotosFn func(ctx context.Context, petID string, photos []*multipart.FileHeader) (*models.Pet, []string, error)
	MarkLostFn     func(ctx context.Context, petID string) (*models.Pet, error)
	MarkFoundFn    func(ctx context.Context, petID string) (*models.Pet, error)
}

func (s *stubPetService) Create(ctx context.Context, req models.CreatePetRequest, image *multipart.FileHeader) (*models.Pet, error) {
	return s.CreateFn(ctx, req, image)
}
func (s *stubPetService) GetByID(ctx context.Context, petID string) (*models.Pet, error) {
	return s.GetByIDFn(ctx, petID)
}
func (s *stubPetService) List(ctx context.Context, filter models.PetListFilter, page, limit int) ([]*models.Pet, int, error) {
	return s.ListFn(ctx, filter, page, limit)
}
func (s *stubPetService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	return s.ListByOwnerFn(ctx, ownerID)
}
func (s *stubPetService) Update(ctx context.Context, petID string, req models.UpdatePetRequest, image *multipart.FileHeader) (*models.Pet, error) {
	return s.UpdateFn(ctx, petID, req, image)
}
func (s *stubPetService) Delete(ctx context.Context, petID string) error {
	return s.DeleteFn(ctx, petID)
}
func (s *stubPetService) UploadPhotos(ctx context.Context, petID string, photos []*multipart.FileHeader) (*models.Pet, []string, error) {
	return s.UploadPhotosFn(ctx, petID, photos)
}
func (s *stubPetService) MarkLost(ctx context.Context, petID string) (*models.Pet, error) {
	return s.MarkLostFn(ctx, petID)
}
func (s *stubPetService) MarkFound(ctx context.Context, petID string) (*models.Pet, error) {
	return s.MarkFoundFn(ctx, petID)
}

type stubLifecycleService struct {
	OnAuthUserCreatedFn        func(ctx context.Context, record models.AuthUserRecord) error
	DeleteAccountFn            func(ctx context.Context, firebaseUID string) error
	OnStorageObjectFinalizedFn func(ctx context.Context, event models.StorageObjectEvent) error
}

func (s *stubLifecycleService) OnAuthUserCreated(ctx context.Context, record models.AuthUserRecord) error {
	return s.OnAuthUserCreatedFn(ctx, record)
}
func (s *stubLifecycleService) DeleteAccount(ctx context.Context, firebaseUID string) error {
	return s.DeleteAccountFn(ctx, firebaseUID)
}
func (s *stubLifecycleService) OnStorageObjectFinalized(ctx context.Context, event models.StorageObjectEvent) error {
	return s.OnStorageObjectFinalizedFn(ctx, event)
}

func newTestRouter(users *stubUserService, pets *stubPetService, lifecycle *stubLifecycleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if users == nil {
		users = &stubUserService{}
	}
	if pets == nil {
		pets = &stubPetService{}
	}
	if lifecycle == nil {
		lifecycle = &stubLifecycleService{}
	}
	SetupRoutes(router, zap.NewNop(), users, pets, lifecycle)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doMultipart(t *testing.T, router *gin.Engine, method, path string, fields map[string]string, files map[string][]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, names := range files {
		for _, name := range names {
			part, err := w.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = part.Write([]byte("fake image bytes"))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func requireEnvelope(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantSuccess bool) map[string]interface{} {
	t.Helper()
	require.Equal(t, wantStatus, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	require.Equal(t, wantSuccess, body["success"])
	return body
}

func validRegisterFields() map[string]string {
	return map[string]string{
		"name":     "Maria Silva",
		"email":    "maria@example.com",
		"phone":    "5511999990000",
		"password": "s3cret-pass",
	}
}

func validPetFields(ownerID string) map[string]string {
	return map[string]string{
		"petName":      "Rex",
		"petType":      "Dog",
		"breed":        "Labrador",
		"gender":       "Male",
		"color":        "Golden",
		"homeLocation": "Sao Paulo, SP",
		"ownerId":      ownerID,
	}
}
