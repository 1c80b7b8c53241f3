package authjwt

import (
	"errors"
	"fmt"
	"time"

	authdomain "github.com/Black-And-White-Club/lensboard/app/modules/auth/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// accessClaims mirrors the shape of a hosted auth access token so tokens
// minted here and tokens from the hosted service validate the same way.
type accessClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	IsAnonymous  bool           `json:"is_anonymous,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// provider implements the Provider interface.
type provider struct {
	secret   []byte
	issuer   string
	audience string
}

// NewProvider creates a new HS256 JWT provider. Empty issuer or audience
// disables the corresponding check.
func NewProvider(secret, issuer, audience string) Provider {
	return &provider{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

// GenerateToken creates a signed JWT token from the given claims.
func (p *provider) GenerateToken(domainClaims *authdomain.Claims, ttl time.Duration) (string, error) {
	if domainClaims == nil || domainClaims.Subject == "" {
		return "", ErrMissingSubject
	}

	now := time.Now()
	claims := &accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   domainClaims.Subject,
			Issuer:    p.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:       domainClaims.Email,
		Role:        string(domainClaims.Role),
		IsAnonymous: domainClaims.Anonymous,
		SessionID:   domainClaims.SessionID,
		UserMetadata: map[string]any{
			authdomain.MetadataFullName:     domainClaims.Name,
			authdomain.MetadataEmailContact: domainClaims.Email,
		},
	}
	if p.audience != "" {
		claims.Audience = jwt.ClaimStrings{p.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and returns the domain claims if valid.
func (p *provider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	name, email := authdomain.NameAndEmail(claims.UserMetadata, claims.Email)
	domainClaims := &authdomain.Claims{
		Subject:   claims.Subject,
		Name:      name,
		Email:     email,
		Role:      authdomain.Role(claims.Role),
		SessionID: claims.SessionID,
		Anonymous: claims.IsAnonymous,
	}

	if claims.ExpiresAt != nil {
		domainClaims.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		domainClaims.IssuedAt = claims.IssuedAt.Time
	}

	return domainClaims, nil
}
