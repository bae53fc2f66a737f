// Package models defines the client-side data model: the verified session
// and the user profile and preferences the backend reports for it.
package models

// Local storage keys.
const (
	// KeyToken is the metadata key holding the backend auth token.
	KeyToken = "token"
	// KeyUsePin and KeyUseBiometrics hold the security preference flags
	// as "true"/"false".
	KeyUsePin        = "use_pin"
	KeyUseBiometrics = "use_biometrics"

	// KeyAppPin is the secret-store key holding the unlock PIN.
	KeyAppPin = "app_pin"
)

// Preferences are the user's security toggles.
type Preferences struct {
	UsePin        bool `json:"use_pin"`
	UseBiometrics bool `json:"use_biometrics"`
}

// UserProfile is the identity the backend returns for a valid token.
type UserProfile struct {
	ID       int64
	Email    string
	FullName string

	// Preferences is nil when the backend did not report them.
	Preferences *Preferences
}

// Session is an authenticated, verified login. A nil *Session means the
// user is not logged in.
type Session struct {
	Token string
	User  *UserProfile
}

// DisplayName is what the CLI prompt shows for the session owner.
func (s *Session) DisplayName() string {
	if s == nil || s.User == nil {
		return ""
	}
	if s.User.FullName != "" {
		return s.User.FullName
	}
	return s.User.Email
}
