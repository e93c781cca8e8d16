package core

import (
	"context"
	"mime/multipart"

	"pettrack-backend-go/internal/models"
)

// AssetService coordinates the image-asset lifecycle: every store upload
// happens before the record write that references it, and every store delete
// is best-effort and never fails the surrounding business operation.
type AssetService interface {
	// UploadImage validates and uploads one file, returning its public URL.
	// No record has been touched when this returns; the caller persists the URL.
	UploadImage(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	// ReplaceImage uploads the new file, invokes save with the new URL to
	// persist the record, and only then best-effort deletes the old image.
	ReplaceImage(ctx context.Context, file *multipart.FileHeader, folder, oldURL string, save func(newURL string) error) (string, error)
	// AppendImages uploads the whole batch concurrently and invokes save once
	// with all URLs. Any upload failure aborts before save; uploaded siblings
	// become orphans rather than partial record entries.
	AppendImages(ctx context.Context, files []*multipart.FileHeader, folder string, save func(urls []string) error) ([]string, error)
	// RemoveAllImages best-effort deletes every URL concurrently.
	RemoveAllImages(ctx context.Context, urls []string)
	// DeleteImage best-effort deletes one URL; an empty URL is a no-op.
	DeleteImage(ctx context.Context, url string)
}

// UserService defines the interface for user-related operations.
type UserService interface {
	Register(ctx context.Context, req models.RegisterUserRequest, image *multipart.FileHeader) (*models.User, error)
	LoginWithEmail(ctx context.Context, req models.LoginRequest) (*models.User, error)
	LoginWithPhone(ctx context.Context, req models.PhoneLoginRequest) (*models.User, error)
	GoogleAuth(ctx context.Context, req models.GoogleAuthRequest) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context, page, limit int) ([]*models.User, int, error)
	Update(ctx context.Context, userID string, req models.UpdateUserRequest, image *multipart.FileHeader) (*models.User, error)
	Delete(ctx context.Context, userID string) error
	Verify(ctx context.Context, userID string) (*models.User, error)
	UpdateNotifications(ctx context.Context, userID string, prefs models.NotificationPreferences) (*models.NotificationPreferences, error)
}

// PetService defines the interface for pet-related operations.
type PetService interface {
	Create(ctx context.Context, req models.CreatePetRequest, image *multipart.FileHeader) (*models.Pet, error)
	GetByID(ctx context.Context, petID string) (*models.Pet, error)
	List(ctx context.Context, filter models.PetListFilter, page, limit int) ([]*models.Pet, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error)
	Update(ctx context.Context, petID string, req models.UpdatePetRequest, image *multipart.FileHeader) (*models.Pet, error)
	Delete(ctx context.Context, petID string) error
	UploadPhotos(ctx context.Context, petID string, photos []*multipart.FileHeader) (*models.Pet, []string, error)
	MarkLost(ctx context.Context, petID string) (*models.Pet, error)
	MarkFound(ctx context.Context, petID string) (*models.Pet, error)
}

// LifecycleService handles the platform event triggers that reconcile records
// with external auth/storage state outside of any REST request.
type LifecycleService interface {
	OnAuthUserCreated(ctx context.Context, record models.AuthUserRecord) error
	DeleteAccount(ctx context.Context, firebaseUID string) error
	OnStorageObjectFinalized(ctx context.Context, event models.StorageObjectEvent) error
}

// AuthAccounts is the narrow slice of the identity provider the deletion
// cascade needs. *auth.Client from the Firebase Admin SDK satisfies it.
type AuthAccounts interface {
	DeleteUser(ctx context.Context, uid string) error
}
