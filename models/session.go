package models

// Credentials carries what the user types to register or sign in. The
// password itself never travels: the server receives a derived authentication
// hash, computed by the key derivation layer.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`

	// AuthHash is the server-side authentication secret derived from the
	// password. Populated by the crypto layer before the request is sent.
	AuthHash string `json:"password_hash,omitempty"`
}

// Session is an authenticated server session.
type Session struct {
	Token       string `json:"token"`
	AccountUUID string `json:"account_uuid"`
	Email       string `json:"email"`
}
