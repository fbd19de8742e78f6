package models

// LoginCredentials is the payload of a login attempt. Identifier is either a
// username or an e-mail address.
type LoginCredentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RegisterCredentials is the payload of an account creation attempt.
type RegisterCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionCredentials identifies a previously issued session that the client
// wants to resume.
type SessionCredentials struct {
	SessionID string `json:"session_id"`
}

// IdentifierQuery asks the server whether an account exists for Identifier.
type IdentifierQuery struct {
	Identifier string `json:"identifier"`
}
