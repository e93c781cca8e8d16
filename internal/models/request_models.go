package models

// Request DTOs. Field rules are declared once, on the binding tags, and
// evaluated uniformly by the gin/validator binding step. Multipart endpoints
// bind with `form` tags; JSON endpoints with `json` tags.

// RegisterUserRequest is the multipart body for POST /api/users/register.
// Address arrives as a JSON-encoded string field and is parsed by the service.
type RegisterUserRequest struct {
	Name     string `form:"name" binding:"required,min=2,max=100"`
	Email    string `form:"email" binding:"required,email"`
	Phone    string `form:"phone" binding:"required,min=10,max=15"`
	Password string `form:"password" binding:"required,min=6"`
	Address  string `form:"address" binding:"omitempty,json"`
}

// UpdateUserRequest is the multipart body for PUT /api/users/:id.
// Pointers distinguish "not provided" from an explicit empty value.
type UpdateUserRequest struct {
	Name          *string `form:"name" binding:"omitempty,min=2,max=100"`
	Email         *string `form:"email" binding:"omitempty,email"`
	Phone         *string `form:"phone" binding:"omitempty,min=10,max=15"`
	Address       string  `form:"address" binding:"omitempty,json"`
	Notifications string  `form:"notifications" binding:"omitempty,json"`
}

// LoginRequest is the JSON body for POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PhoneLoginRequest is the JSON body for POST /api/users/login-phone.
type PhoneLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleAuthRequest is the JSON body for POST /api/users/google-auth.
type GoogleAuthRequest struct {
	FirebaseUID  string `json:"firebaseUid" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name" binding:"omitempty,max=100"`
	ProfileImage string `json:"profileImage" binding:"omitempty,url"`
}

// UpdateNotificationsRequest is the JSON body for POST /api/users/:id/update-notifications.
// No required tag: disabling every channel is a legitimate all-false value.
type UpdateNotificationsRequest struct {
	Notifications NotificationPreferences `json:"notifications"`
}

// CreatePetRequest is the multipart body for POST /api/pets.
type CreatePetRequest struct {
	PetName      string `form:"petName" binding:"required,min=1,max=50"`
	PetType      string `form:"petType" binding:"required,oneof=Dog Cat Rabbit Hamster 'Guinea Pig' Bird Other"`
	Breed        string `form:"breed" binding:"required,min=1,max=100"`
	Gender       string `form:"gender" binding:"required,oneof=Male Female"`
	Color        string `form:"color" binding:"required,oneof=Black White Brown Golden Gray Orange Cream Multi-colored Other"`
	HomeLocation string `form:"homeLocation" binding:"required,min=1,max=200"`
	OwnerID      string `form:"ownerId" binding:"required"`
}

// UpdatePetRequest is the multipart body for PUT /api/pets/:id. The lost/found
// flags are deliberately absent: they change only through the dedicated
// mark-lost and mark-found operations.
type UpdatePetRequest struct {
	PetName      *string `form:"petName" binding:"omitempty,min=1,max=50"`
	PetType      *string `form:"petType" binding:"omitempty,oneof=Dog Cat Rabbit Hamster 'Guinea Pig' Bird Other"`
	Breed        *string `form:"breed" binding:"omitempty,min=1,max=100"`
	Gender       *string `form:"gender" binding:"omitempty,oneof=Male Female"`
	Color        *string `form:"color" binding:"omitempty,oneof=Black White Brown Golden Gray Orange Cream Multi-colored Other"`
	HomeLocation *string `form:"homeLocation" binding:"omitempty,min=1,max=200"`
}

// PetListFilter carries the optional equality filters for GET /api/pets.
type PetListFilter struct {
	OwnerID string
	PetType string
	IsLost  *bool
	IsFound *bool
}
