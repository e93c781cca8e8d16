package db

import (
	"context"
	"errors"
	"regexp"

	"pettrack-backend-go/internal/models"
)

// ErrNotFound is returned when a document does not exist in Firestore.
var ErrNotFound = errors.New("document not found")

// docIDPattern matches well-formed Firestore document IDs. Filters built from
// identifiers that do not match are ignored rather than turned into errors, so
// public listing endpoints degrade to the broader result instead of failing.
var docIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// IsWellFormedID reports whether id can be used as a document identifier filter.
func IsWellFormedID(id string) bool {
	return docIDPattern.MatchString(id)
}

// UserRepository defines the interface for user data storage operations.
// GetByID intentionally returns soft-deleted users too: direct lookups remain
// possible after deactivation, only List excludes them.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (string, error) // Returns new document ID
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	List(ctx context.Context, page, limit int) ([]*models.User, int, error) // active users, newest first, plus total
	Update(ctx context.Context, user *models.User) error
	UpdateProfileImage(ctx context.Context, userID, imageURL string) error
	Delete(ctx context.Context, userID string) error // hard delete; only the account-deletion cascade uses this
}

// PetRepository defines the interface for pet data storage operations.
type PetRepository interface {
	Create(ctx context.Context, pet *models.Pet) (string, error) // Returns new document ID
	GetByID(ctx context.Context, petID string) (*models.Pet, error)
	List(ctx context.Context, filter models.PetListFilter, page, limit int) ([]*models.Pet, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error)
	Update(ctx context.Context, pet *models.Pet) error
	DeleteByOwner(ctx context.Context, ownerID string) (int, error) // hard delete; cascade only
}

// ReportRepository defines the interface for report data storage operations.
// Reports are only touched by the account-deletion cascade.
type ReportRepository interface {
	DeleteByUser(ctx context.Context, userID string) (int, error)
}
