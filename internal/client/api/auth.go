package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/docsmith/internal/client/models"
)

// Login exchanges credentials for a bearer token. It does not store the
// token anywhere; that is the session store's job.
func (g *Gateway) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body, err := jsonBody(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var out models.LoginResponse
	err = g.do(ctx, call{
		op: "auth.login", method: http.MethodPost, path: "/auth/login",
		body: body, contentType: "application/json",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("auth.login: decode response: %w", ErrMissingToken)
	}
	return &out, nil
}

func (g *Gateway) Register(ctx context.Context, name, email, password string) (*models.RegisterResponse, error) {
	body, err := jsonBody(models.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var out models.RegisterResponse
	err = g.do(ctx, call{
		op: "auth.register", method: http.MethodPost, path: "/auth/register",
		body: body, contentType: "application/json",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me resolves the identity behind the current token.
func (g *Gateway) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	err := g.do(ctx, call{op: "auth.me", method: http.MethodGet, path: "/auth/me", protected: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
