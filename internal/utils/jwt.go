package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
)

// Token type tags carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Default lifetimes.
const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// ErrMissingSecret is returned when the signing secret is empty.
var ErrMissingSecret = errors.New("jwt secret is not configured")

// TokenClaims is the payload of both token kinds. Access tokens fill in the
// identity fields; refresh tokens only carry the subject.
type TokenClaims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// AccessToken is a signed access JWT with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is a signed refresh JWT with its expiry.
type RefreshToken struct {
	Token string
	Exp   time.Time
}

// TokenService issues and validates HS256 bearer tokens. It holds no state
// beyond the secret and lifetimes, so one instance is shared by the server.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// NewTokenService fails fast on an empty secret. Non-positive TTLs fall back
// to the defaults.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	s := &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// IssueAccess signs a short lived token carrying the identity claims.
func (s *TokenService) IssueAccess(userID uint64, username, email, role string) (AccessToken, error) {
	now := s.now()
	exp := now.Add(s.accessTTL)
	signed, err := s.sign(TokenClaims{
		Username: username,
		Email:    email,
		Role:     role,
		Type:     TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// IssueRefresh signs a long lived token carrying only the subject.
func (s *TokenService) IssueRefresh(userID uint64) (RefreshToken, error) {
	now := s.now()
	exp := now.Add(s.refreshTTL)
	signed, err := s.sign(TokenClaims{
		Type: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

func (s *TokenService) sign(c TokenClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify checks the signature, the algorithm and the expiry. A token is
// rejected once the current time reaches exp.
func (s *TokenService) Verify(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	tok, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.InvalidToken("Token has expired")
		}
		return nil, errs.InvalidToken("Invalid token")
	}
	if !tok.Valid || claims.Type == "" {
		return nil, errs.InvalidToken("Invalid token")
	}
	return claims, nil
}

// SubjectOf verifies raw and returns its numeric subject.
func (s *TokenService) SubjectOf(raw string) (uint64, error) {
	claims, err := s.Verify(raw)
	if err != nil {
		return 0, err
	}
	return claims.UserID()
}

// UserID parses the subject claim.
func (c *TokenClaims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, errs.InvalidToken("Invalid token subject")
	}
	return id, nil
}
