// Package auth manages the global credential collection: sign-up, sign-in
// and session tokens. It is a collaborator of the core, not part of it;
// callers only need the owner id a session resolves to.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"retailmanager/internal/domain"
	"retailmanager/internal/store"
	"retailmanager/internal/xid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 6

type Service struct {
	collections *store.Collections
	secret      []byte
	tokenTTL    time.Duration
}

type sessionClaims struct {
	jwtlib.RegisteredClaims
	Name string `json:"name"`
}

func New(collections *store.Collections, secret string, tokenTTL time.Duration) *Service {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}

	return &Service{
		collections: collections,
		secret:      []byte(secret),
		tokenTTL:    tokenTTL,
	}
}

func (s *Service) SignUp(ctx context.Context, email string, password string, name string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return domain.User{}, fmt.Errorf("%w: email and name are required", store.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", store.ErrInvalidInput, minPasswordLength)
	}

	users, err := s.collections.LoadUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, user := range users {
		if user.Email == email {
			return domain.User{}, fmt.Errorf("%w: email already registered", store.ErrInvalidInput)
		}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		ID:        xid.New("user"),
		Email:     email,
		Name:      name,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
	users = append(users, user)
	if err := s.collections.SaveUsers(ctx, users); err != nil {
		return domain.User{}, err
	}

	return sanitize(user), nil
}

func (s *Service) SignIn(ctx context.Context, email string, password string) (domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.Session{}, ErrInvalidCredentials
	}

	users, err := s.collections.LoadUsers(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	idx := -1
	for i := range users {
		if users[i].Email == email {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Session{}, ErrInvalidCredentials
	}

	user := users[idx]
	if isPasswordHash(user.Password) {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return domain.Session{}, ErrInvalidCredentials
		}
	} else {
		// Legacy record with a plain-text secret: match by equality, then
		// upgrade it in place.
		if user.Password != password {
			return domain.Session{}, ErrInvalidCredentials
		}
		if hash, err := hashPassword(password); err == nil {
			users[idx].Password = hash
			if err := s.collections.SaveUsers(ctx, users); err != nil {
				log.Printf("[auth] WARN: failed to upgrade legacy password for %s: %v", email, err)
			}
		}
	}

	expiresAt := time.Now().UTC().Add(s.tokenTTL)
	token, err := s.sign(user, expiresAt)
	if err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      sanitize(user),
	}, nil
}

// ParseToken resolves a session token to the owner id and display name it
// was issued for.
func (s *Service) ParseToken(tokenStr string) (string, string, error) {
	claims := &sessionClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid or expired token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", "", errors.New("invalid token subject")
	}
	return sub, claims.Name, nil
}

// Users lists every registered account without secrets. Debug surface only.
func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.collections.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.User, 0, len(users))
	for _, user := range users {
		result = append(result, sanitize(user))
	}
	return result, nil
}

func (s *Service) sign(user domain.User, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "retailmanager",
		},
		Name: user.Name,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func sanitize(user domain.User) domain.User {
	user.Password = ""
	return user
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
