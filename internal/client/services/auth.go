// Package services contains the request builders of the tasklist client.
// Each method maps one logical operation to one API call with a fixed path.
// There are no retries, no caching and no session writes here; errors from
// the transport come back unchanged.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
)

// ErrNoToken is returned by Login when the server accepted the credentials
// but sent no token.
var ErrNoToken = errors.New("no token in login response")

// AuthService defines the account operations.
//
// Contract:
//   - Login: exchange email/password for a credential.
//   - Register: create an account; the returned token may be empty.
//   - Logout: invalidate the current credential on the server.
//   - Profile: fetch the signed-in user; also the server-side credential check.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisteredUser, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.Profile, error)
}

type authService struct {
	transport Transport
}

func NewAuthService(t Transport) AuthService {
	return &authService{transport: t}
}

func (a *authService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var resp dataEnvelope[struct {
		Token string `json:"token"`
	}]
	if err := a.transport.Post(ctx, "/login", req, &resp); err != nil {
		return "", err
	}
	if resp.Data.Token == "" {
		return "", ErrNoToken
	}
	return resp.Data.Token, nil
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisteredUser, error) {
	var resp dataEnvelope[models.RegisteredUser]
	if err := a.transport.Post(ctx, "/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.transport.Post(ctx, "/logout", nil, nil)
}

func (a *authService) Profile(ctx context.Context) (*models.Profile, error) {
	var resp dataEnvelope[models.Profile]
	if err := a.transport.Get(ctx, "/me", &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
