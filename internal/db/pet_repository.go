package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pettrack-backend-go/internal/models"
)

const petsCollection = "pets"

// firestorePetRepository implements the PetRepository interface using Firestore.
type firestorePetRepository struct {
	client *firestore.Client
}

// NewFirestorePetRepository creates a new instance of firestorePetRepository.
func NewFirestorePetRepository(client *firestore.Client) PetRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PetRepository.")
	}
	return &firestorePetRepository{client: client}
}

// Create adds a new pet document with an auto-generated ID and sets pet.ID.
func (r *firestorePetRepository) Create(ctx context.Context, pet *models.Pet) (string, error) {
	docRef := r.client.Collection(petsCollection).NewDoc()
	pet.ID = docRef.ID
	if _, err := docRef.Create(ctx, pet); err != nil {
		return "", fmt.Errorf("failed to create pet: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a pet document by its ID, including soft-deleted pets.
func (r *firestorePetRepository) GetByID(ctx context.Context, petID string) (*models.Pet, error) {
	if petID == "" {
		return nil, errors.New("petID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(petsCollection).Doc(petID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("pet with ID '%s' not found: %w", petID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pet with ID '%s': %w", petID, err)
	}
	return decodePet(docSnap)
}

// List retrieves active pets matching the filter, newest first, with page/limit
// pagination and the total count. A malformed ownerId filter is ignored rather
// than rejected, widening the result to the unfiltered listing.
func (r *firestorePetRepository) List(ctx context.Context, filter models.PetListFilter, page, limit int) ([]*models.Pet, int, error) {
	base := r.buildFilterQuery(filter)
	query := base.OrderBy("createdAt", firestore.Desc).Offset((page - 1) * limit).Limit(limit)

	pets, err := r.collectPets(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	total, err := countDocuments(ctx, base)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pets: %w", err)
	}
	return pets, total, nil
}

// ListByOwner retrieves all active pets for an owner, newest first.
func (r *firestorePetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for ListByOwner operation")
	}
	query := r.client.Collection(petsCollection).
		Where("ownerId", "==", ownerID).
		Where("isActive", "==", true).
		OrderBy("createdAt", firestore.Desc)
	return r.collectPets(ctx, query)
}

// Update overwrites the pet document state with a full Set; services always
// pass a fully populated model. UpdatedAt is zeroed so the serverTimestamp tag
// repopulates it with the write time.
func (r *firestorePetRepository) Update(ctx context.Context, pet *models.Pet) error {
	if pet.ID == "" {
		return errors.New("pet ID cannot be empty for Update operation")
	}
	pet.UpdatedAt = time.Time{}
	if _, err := r.client.Collection(petsCollection).Doc(pet.ID).Set(ctx, pet); err != nil {
		return fmt.Errorf("failed to update pet with ID '%s': %w", pet.ID, err)
	}
	return nil
}

// DeleteByOwner permanently removes every pet document belonging to an owner
// and returns how many were deleted. Only the account-deletion cascade calls
// this.
func (r *firestorePetRepository) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, errors.New("ownerID cannot be empty for DeleteByOwner operation")
	}
	iter := r.client.Collection(petsCollection).Where("ownerId", "==", ownerID).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to iterate pets for owner '%s': %w", ownerID, err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("failed to delete pet '%s' for owner '%s': %w", doc.Ref.ID, ownerID, err)
		}
		deleted++
	}
	return deleted, nil
}

// buildFilterQuery translates a PetListFilter into a Firestore query. Every
// default listing path is scoped to active pets.
func (r *firestorePetRepository) buildFilterQuery(filter models.PetListFilter) firestore.Query {
	query := r.client.Collection(petsCollection).Where("isActive", "==", true)

	if filter.OwnerID != "" {
		if IsWellFormedID(filter.OwnerID) {
			query = query.Where("ownerId", "==", filter.OwnerID)
		} else {
			log.Printf("Ignoring malformed ownerId filter: %q", filter.OwnerID)
		}
	}
	if filter.PetType != "" {
		query = query.Where("petType", "==", filter.PetType)
	}
	if filter.IsLost != nil {
		query = query.Where("isLost", "==", *filter.IsLost)
	}
	if filter.IsFound != nil {
		query = query.Where("isFound", "==", *filter.IsFound)
	}
	return query
}

func (r *firestorePetRepository) collectPets(ctx context.Context, query firestore.Query) ([]*models.Pet, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var pets []*models.Pet
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate pets: %w", err)
		}
		pet, err := decodePet(doc)
		if err != nil {
			log.Printf("Error decoding pet data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		pets = append(pets, pet)
	}
	return pets, nil
}

func decodePet(doc *firestore.DocumentSnapshot) (*models.Pet, error) {
	var pet models.Pet
	if err := doc.DataTo(&pet); err != nil {
		return nil, fmt.Errorf("failed to decode pet data for ID '%s': %w", doc.Ref.ID, err)
	}
	pet.ID = doc.Ref.ID
	return &pet, nil
}
