package core

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"

	"pettrack-backend-go/internal/db"
	"pettrack-backend-go/internal/models"
)

// Pet-facing errors the handlers map to status codes.
var (
	ErrPetNotFound   = errors.New("pet not found")
	ErrOwnerNotFound = errors.New("owner does not reference an existing user")
)

const petImageFolder = "pets"

// petService implements the PetService interface.
type petService struct {
	petRepo  db.PetRepository
	userRepo db.UserRepository
	assets   AssetService
	logger   *zap.Logger
}

// NewPetService creates a new PetService instance.
func NewPetService(petRepo db.PetRepository, userRepo db.UserRepository, assets AssetService, logger *zap.Logger) PetService {
	return &petService{petRepo: petRepo, userRepo: userRepo, assets: assets, logger: logger}
}

// Create registers a new pet profile. The owner reference is checked
// application-side (the store enforces no referential integrity), and any
// profile image is uploaded before the record write that references it.
func (s *petService) Create(ctx context.Context, req models.CreatePetRequest, image *multipart.FileHeader) (*models.Pet, error) {
	owner, err := s.userRepo.GetByID(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to check owner '%s': %w", req.OwnerID, err)
	}
	if !owner.IsActive {
		return nil, ErrOwnerNotFound
	}

	pet := &models.Pet{
		PetName:          req.PetName,
		PetType:          req.PetType,
		Breed:            req.Breed,
		Gender:           req.Gender,
		Color:            req.Color,
		HomeLocation:     req.HomeLocation,
		OwnerID:          req.OwnerID,
		AdditionalPhotos: []string{},
		IsActive:         true,
	}

	if image != nil {
		url, err := s.assets.UploadImage(ctx, image, petImageFolder)
		if err != nil {
			return nil, err
		}
		pet.ProfileImage = url
	}

	if _, err := s.petRepo.Create(ctx, pet); err != nil {
		s.assets.DeleteImage(ctx, pet.ProfileImage)
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	return pet, nil
}

// GetByID retrieves a pet by ID, including soft-deleted pets.
func (s *petService) GetByID(ctx context.Context, petID string) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to get pet '%s': %w", petID, err)
	}
	return pet, nil
}

// List returns active pets matching the filter, newest first, plus the total.
func (s *petService) List(ctx context.Context, filter models.PetListFilter, page, limit int) ([]*models.Pet, int, error) {
	return s.petRepo.List(ctx, filter, page, limit)
}

// ListByOwner returns all active pets for an owner, newest first.
func (s *petService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	return s.petRepo.ListByOwner(ctx, ownerID)
}

// Update applies the provided fields; a supplied image follows the replace
// ordering (upload, persist, best-effort delete of the old image).
func (s *petService) Update(ctx context.Context, petID string, req models.UpdatePetRequest, image *multipart.FileHeader) (*models.Pet, error) {
	pet, err := s.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	if req.PetName != nil {
		pet.PetName = *req.PetName
	}
	if req.PetType != nil {
		pet.PetType = *req.PetType
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.Gender != nil {
		pet.Gender = *req.Gender
	}
	if req.Color != nil {
		pet.Color = *req.Color
	}
	if req.HomeLocation != nil {
		pet.HomeLocation = *req.HomeLocation
	}

	if image != nil {
		if _, err := s.assets.ReplaceImage(ctx, image, petImageFolder, pet.ProfileImage, func(newURL string) error {
			pet.ProfileImage = newURL
			return s.petRepo.Update(ctx, pet)
		}); err != nil {
			return nil, err
		}
		return pet, nil
	}

	if err := s.petRepo.Update(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to update pet '%s': %w", petID, err)
	}
	return pet, nil
}

// Delete best-effort removes every stored image for the pet, then soft-deletes
// the record. Image deletion failures never block the soft delete.
func (s *petService) Delete(ctx context.Context, petID string) error {
	pet, err := s.GetByID(ctx, petID)
	if err != nil {
		return err
	}

	s.assets.RemoveAllImages(ctx, pet.AllImageURLs())

	pet.Deactivate()
	if err := s.petRepo.Update(ctx, pet); err != nil {
		return fmt.Errorf("failed to soft-delete pet '%s': %w", petID, err)
	}
	return nil
}

// UploadPhotos appends a batch of photos to the pet. The batch is
// all-or-nothing at the record layer: the photo list grows by every requested
// photo or not at all.
func (s *petService) UploadPhotos(ctx context.Context, petID string, photos []*multipart.FileHeader) (*models.Pet, []string, error) {
	pet, err := s.GetByID(ctx, petID)
	if err != nil {
		return nil, nil, err
	}

	urls, err := s.assets.AppendImages(ctx, photos, petImageFolder, func(urls []string) error {
		pet.AdditionalPhotos = append(pet.AdditionalPhotos, urls...)
		return s.petRepo.Update(ctx, pet)
	})
	if err != nil {
		return nil, nil, err
	}
	return pet, urls, nil
}

// MarkLost flags the pet as lost, clearing the found flag.
func (s *petService) MarkLost(ctx context.Context, petID string) (*models.Pet, error) {
	return s.setLostFound(ctx, petID, (*models.Pet).MarkLost)
}

// MarkFound flags the pet as found, clearing the lost flag.
func (s *petService) MarkFound(ctx context.Context, petID string) (*models.Pet, error) {
	return s.setLostFound(ctx, petID, (*models.Pet).MarkFound)
}

func (s *petService) setLostFound(ctx context.Context, petID string, mark func(*models.Pet)) (*models.Pet, error) {
	pet, err := s.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	mark(pet)
	if err := s.petRepo.Update(ctx, pet); err != nil {
		return nil, fmt.Errorf("failed to update pet status '%s': %w", petID, err)
	}
	return pet, nil
}
