package domain

// Account is the single registered account persisted on the device.
type Account struct {
	Email        string
	FullName     string
	PasswordHash string
	RegisteredAt string
}

// Profile is what the app shows for the logged-in user.
type Profile struct {
	DisplayName  string `json:"displayName" yaml:"display_name"`
	Email        string `json:"email" yaml:"email"`
	RegisteredAt string `json:"registeredAt" yaml:"registered_at"`
	LastLogin    string `json:"lastLogin" yaml:"last_login"`
}
