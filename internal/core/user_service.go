package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pettrack-backend-go/internal/db"
	"pettrack-backend-go/internal/models"
)

// User-facing errors the handlers map to status codes.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user with this email or phone number already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const userImageFolder = "users"

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	assets   AssetService
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, assets AssetService, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, assets: assets, logger: logger}
}

// Register creates a local account. The email/phone uniqueness checks and the
// optional image upload both happen before the record is written.
func (s *userService) Register(ctx context.Context, req models.RegisterUserRequest, image *multipart.FileHeader) (*models.User, error) {
	email := strings.ToLower(req.Email)

	if err := s.checkUnique(ctx, "", s.userRepo.GetByEmail, email, "email"); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, "", s.userRepo.GetByPhone, req.Phone, "phone"); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:          req.Name,
		Email:         email,
		Phone:         req.Phone,
		Password:      string(hash),
		AuthProvider:  models.AuthProviderLocal,
		Notifications: models.DefaultNotificationPreferences(),
		IsActive:      true,
	}
	if req.Address != "" {
		var addr models.Address
		if err := json.Unmarshal([]byte(req.Address), &addr); err != nil {
			return nil, fmt.Errorf("failed to parse address: %w", err)
		}
		user.Address = &addr
	}

	// Upload before the record write that references the URL.
	if image != nil {
		url, err := s.assets.UploadImage(ctx, image, userImageFolder)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = url
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// The uploaded image is referenced by nothing; try to reclaim it.
		s.assets.DeleteImage(ctx, user.ProfileImage)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// checkUnique returns ErrDuplicateUser when value is already taken by a user
// other than ownID. An empty ownID means any hit is a conflict.
func (s *userService) checkUnique(ctx context.Context, ownID string, lookup func(context.Context, string) (*models.User, error), value, field string) error {
	existing, err := lookup(ctx, value)
	if err == nil {
		if existing.ID != ownID {
			return ErrDuplicateUser
		}
		return nil
	}
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check %s uniqueness: %w", field, err)
}

// LoginWithEmail authenticates by email and password.
func (s *userService) LoginWithEmail(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	return s.finishLogin(ctx, user, err, req.Password)
}

// LoginWithPhone authenticates by phone number and password.
func (s *userService) LoginWithPhone(ctx context.Context, req models.PhoneLoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByPhone(ctx, req.Phone)
	return s.finishLogin(ctx, user, err, req.Password)
}

func (s *userService) finishLogin(ctx context.Context, user *models.User, lookupErr error, password string) (*models.User, error) {
	if lookupErr != nil {
		if errors.Is(lookupErr, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", lookupErr)
	}
	if user.Password == "" {
		// Federated accounts have no local password.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login still succeeded; a stale lastLogin is not worth failing it.
		s.logger.Warn("Failed to record last login", zap.String("userId", user.ID), zap.Error(err))
	}
	return user, nil
}

// GoogleAuth upserts a user from a federated sign-in: match by firebaseUid
// first, then by email, otherwise create a new profile.
func (s *userService) GoogleAuth(ctx context.Context, req models.GoogleAuthRequest) (*models.User, error) {
	email := strings.ToLower(req.Email)

	user, err := s.userRepo.GetByFirebaseUID(ctx, req.FirebaseUID)
	if err == nil {
		changed := false
		if req.Name != "" && user.Name != req.Name {
			user.Name = req.Name
			changed = true
		}
		if req.ProfileImage != "" && user.ProfileImage != req.ProfileImage {
			user.ProfileImage = req.ProfileImage
			changed = true
		}
		if changed {
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to update user on google auth: %w", err)
			}
		}
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by firebase UID: %w", err)
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		// Existing local account; link the federated identity and fill blanks.
		user.FirebaseUID = req.FirebaseUID
		if user.Name == "" && req.Name != "" {
			user.Name = req.Name
		}
		if user.ProfileImage == "" && req.ProfileImage != "" {
			user.ProfileImage = req.ProfileImage
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to link firebase UID: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	name := req.Name
	if name == "" {
		name = "Google User"
	}
	user = &models.User{
		Name:            name,
		Email:           email,
		FirebaseUID:     req.FirebaseUID,
		AuthProvider:    models.AuthProviderGoogle,
		IsEmailVerified: true,
		ProfileImage:    req.ProfileImage,
		Notifications:   models.DefaultNotificationPreferences(),
		IsActive:        true,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user on google auth: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID. Soft-deleted users remain retrievable by
// direct lookup.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

// List returns active users, newest first, plus the total count.
func (s *userService) List(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	return s.userRepo.List(ctx, page, limit)
}

// Update applies the provided fields and, when a new image is supplied,
// follows the replace ordering: upload, persist, then best-effort delete of
// the previous image. A changed email or phone goes through the same
// uniqueness checks as Register; the store enforces no unique indexes.
func (s *userService) Update(ctx context.Context, userID string, req models.UpdateUserRequest, image *multipart.FileHeader) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		if email != user.Email {
			if err := s.checkUnique(ctx, userID, s.userRepo.GetByEmail, email, "email"); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if req.Phone != nil {
		if *req.Phone != user.Phone {
			if err := s.checkUnique(ctx, userID, s.userRepo.GetByPhone, *req.Phone, "phone"); err != nil {
				return nil, err
			}
		}
		user.Phone = *req.Phone
	}
	if req.Address != "" {
		var addr models.Address
		if err := json.Unmarshal([]byte(req.Address), &addr); err != nil {
			return nil, fmt.Errorf("failed to parse address: %w", err)
		}
		user.Address = &addr
	}
	if req.Notifications != "" {
		var prefs models.NotificationPreferences
		if err := json.Unmarshal([]byte(req.Notifications), &prefs); err != nil {
			return nil, fmt.Errorf("failed to parse notifications: %w", err)
		}
		user.Notifications = prefs
	}

	if image != nil {
		if _, err := s.assets.ReplaceImage(ctx, image, userImageFolder, user.ProfileImage, func(newURL string) error {
			user.ProfileImage = newURL
			return s.userRepo.Update(ctx, user)
		}); err != nil {
			return nil, err
		}
		return user, nil
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user '%s': %w", userID, err)
	}
	return user, nil
}

// Delete best-effort removes the profile image from the store, then
// soft-deletes the record.
func (s *userService) Delete(ctx context.Context, userID string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	s.assets.DeleteImage(ctx, user.ProfileImage)

	user.Deactivate()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to soft-delete user '%s': %w", userID, err)
	}
	return nil
}

// Verify marks the user account as verified.
func (s *userService) Verify(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to verify user '%s': %w", userID, err)
	}
	return user, nil
}

// UpdateNotifications replaces the user's notification preferences.
func (s *userService) UpdateNotifications(ctx context.Context, userID string, prefs models.NotificationPreferences) (*models.NotificationPreferences, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Notifications = prefs
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update notifications for user '%s': %w", userID, err)
	}
	return &user.Notifications, nil
}
