package db

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"pettrack-backend-go/internal/config"
)

// Clients bundles the Firebase-backed client handles the application needs.
// They are constructed once at startup and passed explicitly to the components
// that use them; there are no package-level singletons.
type Clients struct {
	Firestore  *firestore.Client
	Auth       *auth.Client
	Bucket     *gcs.BucketHandle
	BucketName string
}

// NewClients initializes the Firebase Admin SDK and returns the Firestore,
// Auth, and default storage bucket handles. Credentials come from either a
// service account file path or a base64-encoded service account JSON blob.
func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("NewClients: cfg cannot be nil")
	}

	var credsOption option.ClientOption
	if cfg.GoogleApplicationCredentials != "" {
		credsOption = option.WithCredentialsFile(cfg.GoogleApplicationCredentials)
	} else if cfg.FirebaseServiceAccountJSONBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decoded)
	} else {
		return nil, fmt.Errorf("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 must be set")
	}

	fbConfig := &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.StorageBucket,
	}

	app, err := firebase.NewApp(ctx, fbConfig, credsOption)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("app.Storage: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("storage.DefaultBucket: %w", err)
	}

	return &Clients{
		Firestore:  fsClient,
		Auth:       authClient,
		Bucket:     bucket,
		BucketName: cfg.StorageBucket,
	}, nil
}

// Close releases the underlying client connections.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
