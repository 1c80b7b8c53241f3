package authdomain

import (
	"testing"
	"time"
)

func TestClaims_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "not expired (future)",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "expired (past)",
			expiresAt: time.Now().Add(-1 * time.Hour),
			want:      true,
		},
		{
			name: "no expiry",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Claims{
				ExpiresAt: tt.expiresAt,
			}
			if got := c.IsExpired(); got != tt.want {
				t.Errorf("Claims.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClaims_Identity(t *testing.T) {
	c := &Claims{Subject: "u1", Name: "Ada", Email: "ada@example.com", SessionID: "s1", Anonymous: true}
	got := c.Identity()
	want := Identity{PlayerID: "u1", Name: "Ada", Email: "ada@example.com", SessionID: "s1", Anonymous: true}
	if got != want {
		t.Errorf("Identity() = %+v, want %+v", got, want)
	}
}

func TestNameAndEmail(t *testing.T) {
	tests := []struct {
		name      string
		metadata  map[string]any
		account   string
		wantName  string
		wantEmail string
	}{
		{
			name:      "metadata wins",
			metadata:  map[string]any{"full_name": "Ada", "email_contact": "ada@example.com"},
			account:   "other@example.com",
			wantName:  "Ada",
			wantEmail: "ada@example.com",
		},
		{
			name:      "falls back to account email",
			metadata:  map[string]any{"full_name": "Ada"},
			account:   "acct@example.com",
			wantName:  "Ada",
			wantEmail: "acct@example.com",
		},
		{
			name:     "wrong types ignored",
			metadata: map[string]any{"full_name": 12, "email_contact": false},
		},
		{
			name: "nil metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, email := NameAndEmail(tt.metadata, tt.account)
			if name != tt.wantName || email != tt.wantEmail {
				t.Errorf("NameAndEmail() = (%q, %q), want (%q, %q)", name, email, tt.wantName, tt.wantEmail)
			}
		})
	}
}
