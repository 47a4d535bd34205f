package auth

import (
	"errors"
	"time"
)

var ErrUnauthorized = errors.New("unauthorized")

type AccessClaims struct {
	PhoneNumber string
	ExpiresAt   time.Time
}
