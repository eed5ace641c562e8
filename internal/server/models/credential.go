package models

import "time"

// Credential is a stored secret for one external service. The password is
// kept only as ciphertext; ownership is immutable after creation and the
// (UserID, Service) pair is unique per owner.
type Credential struct {
	ID                string
	UserID            string
	Service           string
	Username          string
	EncryptedPassword string
	URL               string
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
