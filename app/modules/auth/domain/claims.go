package authdomain

import "time"

// Role is the database role a token grants.
type Role string

const (
	RoleAnon          Role = "anon"
	RoleAuthenticated Role = "authenticated"
)

// Claims represents the domain model for authentication claims.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      Role
	SessionID string
	Anonymous bool
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired. Claims without an expiry never expire.
func (c *Claims) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// Identity returns the player identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		PlayerID:  c.Subject,
		Name:      c.Name,
		Email:     c.Email,
		SessionID: c.SessionID,
		Anonymous: c.Anonymous,
	}
}

// Identity is the resolved caller of a request.
type Identity struct {
	PlayerID  string
	Name      string
	Email     string
	SessionID string
	Anonymous bool
}
