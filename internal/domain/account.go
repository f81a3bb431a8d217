package domain

import "time"

// Account is a registered user record in the account directory. The password
// hash is empty for accounts provisioned through the external identity
// provider; such accounts cannot authenticate by password.
type Account struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	AvatarURL    string
	PasswordHash string // argon2id PHC encoded, or "" for identity-provisioned accounts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountDraft carries the caller-supplied fields for registration.
type AccountDraft struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"imgUrl,omitempty"`
}

// Profile is the externally visible subset of an Account.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"imgUrl,omitempty"`
}

// Profile projects the account onto its public shape.
func (a Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		Email:     a.Email,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		AvatarURL: a.AvatarURL,
	}
}
