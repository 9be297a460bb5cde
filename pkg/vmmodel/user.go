package vmmodel

const RoleAdmin = "admin"

// User is a console operator. APIKeyHash is the hex blake2b-256 digest of
// the key the operator authenticates with.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	APIKeyHash string `json:"apiKeyHash,omitempty"`
}

func (u *User) setID(id string) { u.ID = id }
