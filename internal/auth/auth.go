package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtIssuer   = "gymdesk-api"
	jwtAudience = "gymdesk-staff"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrEmptyJWTSecret   = errors.New("jwt secret cannot be empty")
)

type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

func (k TokenKind) ttl() time.Duration {
	if k == KindRefresh {
		return RefreshTokenTTL
	}
	return AccessTokenTTL
}

type Claims struct {
	Identity
	Kind TokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

// Verifier checks a signed token of the expected kind.
type Verifier interface {
	Verify(token string, kind TokenKind) (*Claims, error)
}

// Issuer signs and verifies HS256 staff tokens. Both token kinds share one
// secret; the kind claim keeps a refresh token from opening the API.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(secret), now: now}
}

func (i *Issuer) Sign(id Identity, kind TokenKind) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrEmptyJWTSecret
	}
	if !id.Role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidToken, id.Role)
	}

	issued := i.now()
	claims := &Claims{
		Identity: id,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   id.Username,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(issued.Add(kind.ttl())),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Issue returns an access and a refresh token for p.
func (i *Issuer) Issue(p Principal) (access, refresh string, err error) {
	id := p.Identity()
	if access, err = i.Sign(id, KindAccess); err != nil {
		return "", "", err
	}
	if refresh, err = i.Sign(id, KindRefresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (i *Issuer) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrEmptyJWTSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return i.secret, nil
		},
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(jwtAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
