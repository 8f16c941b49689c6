package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// CredentialStore is the lookup the Service needs to verify a login.
type CredentialStore interface {
	FindByCredentials(ctx context.Context, email, password string) (*Administrator, error)
}

type Service struct {
	store  CredentialStore
	secret []byte
	now    func() time.Time
}

func NewService(store CredentialStore, secret string) *Service {
	return &Service{
		store:  store,
		secret: []byte(secret),
		now:    time.Now,
	}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenIssuance      = errors.New("token issuance failed")
	ErrInvalidToken       = errors.New("invalid token")
)

// Login verifies email and password and returns the administrator with a
// freshly signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*Administrator, string, error) {
	admin, err := s.store.FindByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrAdministratorNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	token, err := s.IssueToken(admin)
	if err != nil {
		return nil, "", err
	}
	if token == "" {
		return nil, "", ErrTokenIssuance
	}
	return admin, token, nil
}

// Claims mirrors the role under both Perfil and Role.
type Claims struct {
	Email  string `json:"Email"`
	Perfil Role   `json:"Perfil"`
	Role   Role   `json:"Role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for admin. With no signing key configured it
// returns an empty token and no error.
func (s *Service) IssueToken(admin *Administrator) (string, error) {
	if len(s.secret) == 0 {
		return "", nil
	}
	now := s.now().UTC()
	claims := Claims{
		Email:  admin.Email,
		Perfil: admin.Role,
		Role:   admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// ParseToken verifies signature and expiry and returns the claims. Tokens
// carrying a role outside the known set are rejected.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
