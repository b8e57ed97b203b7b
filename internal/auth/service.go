package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inamate/flowcanvas/internal/typeid"
)

const (
	tokenTTL           = 24 * time.Hour
	maxDisplayNameSize = 64
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	jwtSecret []byte
	now       func() time.Time
}

func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// IssueGuest creates a guest identity and signs a token for it. An empty
// display name gets a generated one.
func (s *Service) IssueGuest(displayName string) (*AuthResult, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "Guest " + uuid.New().String()[:4]
	}
	if len(displayName) > maxDisplayNameSize {
		displayName = displayName[:maxDisplayNameSize]
	}

	user := User{
		ID:          typeid.NewUserID(),
		DisplayName: displayName,
	}
	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ValidateToken returns the user ID a token was issued to.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	user, err := s.ParseToken(tokenString)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// ParseToken returns the identity carried by a token.
func (s *Service) ParseToken(tokenString string) (*User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)

	return &User{ID: userID, DisplayName: name}, nil
}

func (s *Service) issueToken(user User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.DisplayName,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
