package models

// Trigger event payloads, mirroring the shapes the platform delivers for auth
// and storage lifecycle events.

// AuthUserRecord is the auth-provider user record delivered when an account
// is created.
type AuthUserRecord struct {
	UID         string `json:"uid" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// DeleteAccountRequest identifies the auth account to tear down.
type DeleteAccountRequest struct {
	UID string `json:"uid" binding:"required"`
}

// StorageObjectEvent is the object-finalize event delivered when an upload
// lands in the bucket out of band.
type StorageObjectEvent struct {
	Name        string `json:"name" binding:"required"` // store-relative object path
	Bucket      string `json:"bucket"`
	ContentType string `json:"contentType"`
}
