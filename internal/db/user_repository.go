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

const usersCollection = "users"

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document with an auto-generated ID and sets user.ID.
// CreatedAt/UpdatedAt are populated server-side via the serverTimestamp tags.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	docRef := r.client.Collection(usersCollection).NewDoc()
	user.ID = docRef.ID
	if _, err := docRef.Create(ctx, user); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a user document by its ID. Soft-deleted users are returned
// too; callers that need only live records must check IsActive themselves.
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}
	return decodeUser(docSnap)
}

// GetByEmail retrieves a user by email. Emails are stored lowercase.
func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOneWhere(ctx, "email", email)
}

// GetByPhone retrieves a user by phone number.
func (r *firestoreUserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getOneWhere(ctx, "phone", phone)
}

// GetByFirebaseUID retrieves a user by their Firebase Auth UID.
func (r *firestoreUserRepository) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return r.getOneWhere(ctx, "firebaseUid", firebaseUID)
}

// List retrieves active users, newest first, with page/limit pagination and the
// total count of matching documents.
func (r *firestoreUserRepository) List(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	base := r.client.Collection(usersCollection).Where("isActive", "==", true)
	query := base.OrderBy("createdAt", firestore.Desc).Offset((page - 1) * limit).Limit(limit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var users []*models.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
		}
		user, err := decodeUser(doc)
		if err != nil {
			log.Printf("Error decoding user data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		users = append(users, user)
	}

	total, err := countDocuments(ctx, base)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return users, total, nil
}

// Update overwrites the user document state. Services always pass a fully
// populated model fetched earlier, so a full Set is safe. UpdatedAt is zeroed
// so the serverTimestamp tag repopulates it with the write time.
func (r *firestoreUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Update operation")
	}
	user.UpdatedAt = time.Time{}
	if _, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user); err != nil {
		return fmt.Errorf("failed to update user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// UpdateProfileImage updates only the profileImage field (plus updatedAt).
// Used by the storage-finalize trigger, which must not clobber other fields
// written concurrently by the REST path; the image field itself is
// last-write-wins.
func (r *firestoreUserRepository) UpdateProfileImage(ctx context.Context, userID, imageURL string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for UpdateProfileImage operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "profileImage", Value: imageURL},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to update profile image for user '%s': %w", userID, err)
	}
	return nil
}

// Delete removes the user document permanently. Only the account-deletion
// cascade calls this; the REST surface soft-deletes via Update.
func (r *firestoreUserRepository) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("userID cannot be empty for Delete operation")
	}
	if _, err := r.client.Collection(usersCollection).Doc(userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user with ID '%s': %w", userID, err)
	}
	return nil
}

func (r *firestoreUserRepository) getOneWhere(ctx context.Context, field string, value interface{}) (*models.User, error) {
	iter := r.client.Collection(usersCollection).Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("user with %s '%v' not found: %w", field, value, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by %s: %w", field, err)
	}
	return decodeUser(doc)
}

func decodeUser(doc *firestore.DocumentSnapshot) (*models.User, error) {
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", doc.Ref.ID, err)
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

// countDocuments counts the documents matched by a query by iterating its
// snapshots. Fine at this system's collection sizes; an aggregation count
// query would be the upgrade path for very large collections.
func countDocuments(ctx context.Context, query firestore.Query) (int, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}
