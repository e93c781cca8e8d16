package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const reportsCollection = "reports"

// firestoreReportRepository implements the ReportRepository interface using Firestore.
type firestoreReportRepository struct {
	client *firestore.Client
}

// NewFirestoreReportRepository creates a new instance of firestoreReportRepository.
func NewFirestoreReportRepository(client *firestore.Client) ReportRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ReportRepository.")
	}
	return &firestoreReportRepository{client: client}
}

// DeleteByUser permanently removes every report document referencing the user
// and returns how many were deleted.
func (r *firestoreReportRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, errors.New("userID cannot be empty for DeleteByUser operation")
	}
	iter := r.client.Collection(reportsCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to iterate reports for user '%s': %w", userID, err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("failed to delete report '%s' for user '%s': %w", doc.Ref.ID, userID, err)
		}
		deleted++
	}
	return deleted, nil
}
