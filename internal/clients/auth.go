package clients

import (
	"context"
	"net/http"

	"github.com/rahul4902/blood-sub001/internal/auth"
	"github.com/rahul4902/blood-sub001/internal/model"
)

// AuthClient talks to /auth. The underlying HTTP client must carry a cookie
// jar for the refresh cookie.
type AuthClient struct{ c *Client }

func NewAuthClient(c *Client) *AuthClient { return &AuthClient{c: c} }

func (ac *AuthClient) Login(ctx context.Context, creds model.Credentials) (auth.TokenResponse, error) {
	var out auth.TokenResponse
	err := ac.c.DoJSON(ctx, http.MethodPost, "/auth/login", nil, nil, creds, &out)
	return out, err
}

func (ac *AuthClient) Register(ctx context.Context, reg model.Registration) (auth.TokenResponse, error) {
	var out auth.TokenResponse
	err := ac.c.DoJSON(ctx, http.MethodPost, "/auth/register", nil, nil, reg, &out)
	return out, err
}

func (ac *AuthClient) Refresh(ctx context.Context) (auth.TokenResponse, error) {
	var out auth.TokenResponse
	err := ac.c.DoJSON(ctx, http.MethodPost, "/auth/refresh", nil, nil, nil, &out)
	return out, err
}

func (ac *AuthClient) Logout(ctx context.Context, accessToken string) error {
	return ac.c.DoJSON(ctx, http.MethodPost, "/auth/logout", nil, bearer(accessToken), nil, nil)
}

func (ac *AuthClient) Profile(ctx context.Context, accessToken string) (model.User, error) {
	var out struct {
		User model.User `json:"user"`
	}
	err := ac.c.DoJSON(ctx, http.MethodGet, "/auth/profile", nil, bearer(accessToken), nil, &out)
	return out.User, err
}
