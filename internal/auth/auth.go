package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	internal "github.com/frahmantamala/hrms-backend/internal"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// User is a login principal belonging to exactly one organisation. Email is
// unique per organisation, not globally.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganisationID string    `json:"organisation_id" gorm:"column:organisation_id;not null"`
	Email          string    `json:"email" gorm:"not null"`
	PasswordHash   string    `json:"-" gorm:"column:password_hash;not null"`
	Name           string    `json:"name" gorm:"not null"`
	Role           string    `json:"role" gorm:"default:manager"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Organisation is the root of tenancy; every other entity hangs off its id.
type Organisation struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Organisation) TableName() string {
	return "organisations"
}

// Claims represents JWT token claims
type Claims struct {
	UserID         string `json:"user_id"`
	OrganisationID string `json:"organisation_id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates signed credentials.
type TokenGenerator interface {
	GenerateToken(user *User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

// NewJWTTokenGenerator creates an HS256 token generator with a fixed
// validity window.
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

// GenerateToken signs a credential embedding the user's identity and tenant.
func (j *JWTTokenGenerator) GenerateToken(user *User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:         user.ID,
		OrganisationID: user.OrganisationID,
		Email:          user.Email,
		Role:           user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ValidateToken verifies signature and expiry. Expired tokens are reported
// distinctly so callers can prompt re-login instead of rejecting outright.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
