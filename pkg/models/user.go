package models

// User is a registered account identified by unique email.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
}

// UserDomainPreference links a user to a domain they want in their feed.
// The set is fully replaced on each preference update.
type UserDomainPreference struct {
	UserID   int64 `json:"user_id"`
	DomainID int64 `json:"domain_id"`
}
