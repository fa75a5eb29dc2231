package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rahul4902/blood-sub001/internal/model"
)

// Storage keys. Each is written and cleared on its own.
const (
	KeyAccessToken = "accessToken"
	KeyTokenExpiry = "tokenExpiry"
	KeyUser        = "user"
)

const LoginRoute = "/login"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidTiming    = errors.New("refresh threshold must be larger than the check interval")
)

type Session struct {
	AccessToken string      `json:"accessToken"`
	TokenExpiry time.Time   `json:"tokenExpiry"`
	User        *model.User `json:"user"`
}

func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// TokenResponse is returned by login, register and refresh.
type TokenResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiryDate  time.Time   `json:"expiryDate"`
	User        *model.User `json:"user"`
}

// Result reports an expected failure without returning an error.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Backend is the auth half of the REST API. Login, register and refresh
// rely on the refresh cookie set by the server.
type Backend interface {
	Login(ctx context.Context, creds model.Credentials) (TokenResponse, error)
	Register(ctx context.Context, reg model.Registration) (TokenResponse, error)
	Refresh(ctx context.Context) (TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Profile(ctx context.Context, accessToken string) (model.User, error)
}

type Navigator interface {
	Navigate(path string)
}

type unauthorizer interface {
	Unauthorized() bool
}

type userMessager interface {
	UserMessage() string
}

func isUnauthorized(err error) bool {
	var u unauthorizer
	return errors.As(err, &u) && u.Unauthorized()
}

func messageOr(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}
