package models

import "time"

// Auth provider tags stored on User.AuthProvider.
const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// Address is the nested mailing address value on a User.
type Address struct {
	Street  string `json:"street,omitempty" firestore:"street,omitempty"`
	City    string `json:"city,omitempty" firestore:"city,omitempty"`
	State   string `json:"state,omitempty" firestore:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" firestore:"zipCode,omitempty"`
	Country string `json:"country,omitempty" firestore:"country,omitempty"`
}

// NotificationPreferences is the nested notification settings value on a User.
type NotificationPreferences struct {
	Email bool `json:"email" firestore:"email"`
	Push  bool `json:"push" firestore:"push"`
	SMS   bool `json:"sms" firestore:"sms"`
}

// DefaultNotificationPreferences returns the preferences applied to every new profile.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, Push: true, SMS: false}
}

// User represents a registered user. The password hash is excluded from every
// JSON representation via the `json:"-"` tag; only the repository layer sees it.
type User struct {
	ID              string                  `json:"id" firestore:"-"` // Firestore document ID
	Name            string                  `json:"name" firestore:"name"`
	Email           string                  `json:"email" firestore:"email"` // stored lowercase
	Phone           string                  `json:"phone" firestore:"phone"`
	Password        string                  `json:"-" firestore:"password,omitempty"` // bcrypt hash
	FirebaseUID     string                  `json:"firebaseUid,omitempty" firestore:"firebaseUid,omitempty"`
	AuthProvider    string                  `json:"authProvider" firestore:"authProvider"`
	IsEmailVerified bool                    `json:"isEmailVerified" firestore:"isEmailVerified"`
	ProfileImage    string                  `json:"profileImage" firestore:"profileImage"`
	Address         *Address                `json:"address,omitempty" firestore:"address,omitempty"`
	Notifications   NotificationPreferences `json:"notifications" firestore:"notifications"`
	IsActive        bool                    `json:"isActive" firestore:"isActive"`
	IsVerified      bool                    `json:"isVerified" firestore:"isVerified"`
	LastLogin       *time.Time              `json:"lastLogin,omitempty" firestore:"lastLogin,omitempty"`
	CreatedAt       time.Time               `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt       time.Time               `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Deactivate soft-deletes the user. The record is kept for referential history.
func (u *User) Deactivate() {
	u.IsActive = false
}
