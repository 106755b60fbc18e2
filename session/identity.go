package session

// Identity is the cached user record persisted alongside the token so the
// shell can render who is signed in without re-decoding on every read. It is
// cleared whenever the token is cleared; the two never diverge.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"correo"`
	Name  string `json:"nombre"`
	Phone string `json:"telefono,omitempty"`
	Role  string `json:"rol"`
}
