package models

import "time"

// Enumerated options for pet fields. The request DTOs enforce the same lists
// declaratively through their binding tags.
var (
	PetTypeOptions = []string{"Dog", "Cat", "Rabbit", "Hamster", "Guinea Pig", "Bird", "Other"}
	GenderOptions  = []string{"Male", "Female"}
	ColorOptions   = []string{"Black", "White", "Brown", "Golden", "Gray", "Orange", "Cream", "Multi-colored", "Other"}
)

// Pet represents a pet profile owned by a User.
type Pet struct {
	ID               string    `json:"id" firestore:"-"` // Firestore document ID
	PetName          string    `json:"petName" firestore:"petName"`
	PetType          string    `json:"petType" firestore:"petType"`
	Breed            string    `json:"breed" firestore:"breed"`
	Gender           string    `json:"gender" firestore:"gender"`
	Color            string    `json:"color" firestore:"color"`
	HomeLocation     string    `json:"homeLocation" firestore:"homeLocation"`
	ProfileImage     string    `json:"profileImage" firestore:"profileImage"`
	AdditionalPhotos []string  `json:"additionalPhotos" firestore:"additionalPhotos"`
	OwnerID          string    `json:"ownerId" firestore:"ownerId"`
	IsActive         bool      `json:"isActive" firestore:"isActive"`
	IsLost           bool      `json:"isLost" firestore:"isLost"`
	IsFound          bool      `json:"isFound" firestore:"isFound"`
	CreatedAt        time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt        time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// MarkLost flags the pet as lost and clears the found flag. The two flags are
// only ever mutated together through MarkLost/MarkFound.
func (p *Pet) MarkLost() {
	p.IsLost = true
	p.IsFound = false
}

// MarkFound flags the pet as found and clears the lost flag.
func (p *Pet) MarkFound() {
	p.IsFound = true
	p.IsLost = false
}

// Deactivate soft-deletes the pet.
func (p *Pet) Deactivate() {
	p.IsActive = false
}

// AllImageURLs returns the profile image plus every additional photo, skipping
// empty entries. Used when tearing down a pet's stored images.
func (p *Pet) AllImageURLs() []string {
	urls := make([]string, 0, len(p.AdditionalPhotos)+1)
	if p.ProfileImage != "" {
		urls = append(urls, p.ProfileImage)
	}
	for _, u := range p.AdditionalPhotos {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
