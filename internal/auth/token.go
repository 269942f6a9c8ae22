package auth // package auth issues and validates the service's bearer credentials

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds embedded in the signed claims. Access and refresh tokens share
// the same signing key, so the kind discriminator is what keeps a refresh
// token from being accepted where an access token is expected (and vice
// versa).
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, expired, wrong kind, or missing subject. Callers should treat it
// uniformly as an authentication failure.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload carried inside every token. Subject holds the
// user's email; Kind distinguishes access from refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
}

// TokenConfig bundles the signing secret and validity windows. It is built
// from the application Config at startup and handed to NewTokenService; the
// secret is never read from a package-level variable.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService signs and verifies HS256 JWTs. It is stateless: issued tokens
// are valid until their embedded expiry and there is no revocation list.
type TokenService struct {
	cfg TokenConfig
}

// NewTokenService constructs a TokenService from the given configuration.
func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// IssueAccessToken signs a short-lived access token for the given subject
// email.
func (s *TokenService) IssueAccessToken(email string) (string, time.Time, error) {
	return s.issue(email, KindAccess, s.cfg.AccessTTL)
}

// IssueRefreshToken signs a longer-lived refresh token for the given subject
// email.
func (s *TokenService) IssueRefreshToken(email string) (string, time.Time, error) {
	return s.issue(email, KindRefresh, s.cfg.RefreshTTL)
}

func (s *TokenService) issue(email, kind string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Kind: kind,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// DecodeAccessToken verifies an access token and returns the subject email.
func (s *TokenService) DecodeAccessToken(token string) (string, error) {
	return s.decode(token, KindAccess)
}

// DecodeRefreshToken verifies a refresh token and returns the subject email.
// An absent subject is an error here too: both decode paths share one
// contract.
func (s *TokenService) DecodeRefreshToken(token string) (string, error) {
	return s.decode(token, KindRefresh)
}

func (s *TokenService) decode(token, kind string) (string, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is ever used for signing; reject anything else.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Kind != kind || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
