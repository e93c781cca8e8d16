package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pettrack-backend-go/internal/db"
	"pettrack-backend-go/internal/models"
	"pettrack-backend-go/internal/storage"
)

// lifecycleService implements the LifecycleService interface. It converges
// record state with external auth/storage events outside of any REST request.
type lifecycleService struct {
	userRepo   db.UserRepository
	petRepo    db.PetRepository
	reportRepo db.ReportRepository
	accounts   AuthAccounts
	assets     AssetService
	bucketName string
	logger     *zap.Logger
}

// NewLifecycleService creates a new LifecycleService instance.
func NewLifecycleService(
	userRepo db.UserRepository,
	petRepo db.PetRepository,
	reportRepo db.ReportRepository,
	accounts AuthAccounts,
	assets AssetService,
	bucketName string,
	logger *zap.Logger,
) LifecycleService {
	return &lifecycleService{
		userRepo:   userRepo,
		petRepo:    petRepo,
		reportRepo: reportRepo,
		accounts:   accounts,
		assets:     assets,
		bucketName: bucketName,
		logger:     logger,
	}
}

// OnAuthUserCreated creates a profile record for a freshly created auth
// account with default preferences. The operation is idempotent: an existing
// profile for the UID is left alone. Callers treat failures as fire-and-forget
// (the auth account exists regardless).
func (s *lifecycleService) OnAuthUserCreated(ctx context.Context, record models.AuthUserRecord) error {
	if record.UID == "" {
		return errors.New("auth user record has no UID")
	}

	if _, err := s.userRepo.GetByFirebaseUID(ctx, record.UID); err == nil {
		return nil
	} else if !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("failed to check for existing profile: %w", err)
	}

	user := &models.User{
		Name:          record.DisplayName,
		Email:         strings.ToLower(record.Email),
		Phone:         record.PhoneNumber,
		FirebaseUID:   record.UID,
		AuthProvider:  models.AuthProviderGoogle,
		ProfileImage:  record.PhotoURL,
		Notifications: models.DefaultNotificationPreferences(),
		IsActive:      true,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create profile for auth user '%s': %w", record.UID, err)
	}
	s.logger.Info("Profile created for new auth account", zap.String("uid", record.UID))
	return nil
}

// DeleteAccount tears down everything owned by the auth account: the user's
// pets and reports are hard-deleted concurrently and awaited, then the user
// record is deleted, and only then the auth account itself. A crash mid-way
// leaves the auth account intact with no profile, which re-running this
// operation recovers; the reverse (records outliving the account owner's
// ability to re-trigger deletion) cannot happen. Stored images behind the
// deleted records are removed best-effort once no record references them;
// soft-deleted pets had their images removed at soft-delete time.
func (s *lifecycleService) DeleteAccount(ctx context.Context, firebaseUID string) error {
	user, err := s.userRepo.GetByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve account '%s': %w", firebaseUID, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pets, err := s.petRepo.ListByOwner(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to list pets for cascade: %w", err)
		}
		n, err := s.petRepo.DeleteByOwner(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to cascade-delete pets: %w", err)
		}
		for _, pet := range pets {
			s.assets.RemoveAllImages(gctx, pet.AllImageURLs())
		}
		s.logger.Info("Cascade-deleted pets", zap.String("userId", user.ID), zap.Int("count", n))
		return nil
	})
	g.Go(func() error {
		n, err := s.reportRepo.DeleteByUser(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to cascade-delete reports: %w", err)
		}
		s.logger.Info("Cascade-deleted reports", zap.String("userId", user.ID), zap.Int("count", n))
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user record '%s': %w", user.ID, err)
	}
	s.assets.DeleteImage(ctx, user.ProfileImage)
	if err := s.accounts.DeleteUser(ctx, firebaseUID); err != nil {
		return fmt.Errorf("failed to delete auth account '%s': %w", firebaseUID, err)
	}
	s.logger.Info("Account deleted", zap.String("uid", firebaseUID))
	return nil
}

// OnStorageObjectFinalized reconciles out-of-band uploads: an image landing
// under users/<uid>/profile/... becomes that user's current profile image
// (last write wins on the record field). Every other path shape, and any
// non-image content, is ignored. This is a secondary producer of the profile
// image next to the REST upload path.
func (s *lifecycleService) OnStorageObjectFinalized(ctx context.Context, event models.StorageObjectEvent) error {
	if !strings.HasPrefix(event.ContentType, "image/") {
		return nil
	}

	parts := strings.Split(event.Name, "/")
	if len(parts) < 3 || parts[0] != "users" || parts[2] != "profile" {
		return nil
	}
	uid := parts[1]

	user, err := s.userRepo.GetByFirebaseUID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("Finalized profile image for unknown auth UID; ignoring",
				zap.String("uid", uid), zap.String("object", event.Name))
			return nil
		}
		return fmt.Errorf("failed to resolve user for finalized object: %w", err)
	}

	bucket := event.Bucket
	if bucket == "" {
		bucket = s.bucketName
	}
	imageURL := storage.PublicURL(bucket, event.Name)
	if err := s.userRepo.UpdateProfileImage(ctx, user.ID, imageURL); err != nil {
		return fmt.Errorf("failed to sync profile image for user '%s': %w", user.ID, err)
	}
	s.logger.Info("Profile image synced from storage event",
		zap.String("userId", user.ID), zap.String("object", event.Name))
	return nil
}
