package admin

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest payload of login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    example:"ops@agrihub.test"`
	Password string `json:"password" example:"s3cret-pass"`
}

// LoginResponse carries the bearer token.
// swagger:model LoginResponse
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     Admin     `json:"admin"`
}

var ErrBadCredentials = errors.New("invalid email or password")

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
