// ABOUTME: Auth endpoints: signup, login, current user
// ABOUTME: Login/signup return the token the session store persists

package client

import (
	"context"
	"net/http"
)

// User is the authenticated identity as the backend reports it.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse is the {token, user} pair both signup and login return.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SignupInput is the account creation payload.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup calls POST /api/auth/signup.
func (c *Client) Signup(ctx context.Context, in SignupInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login calls POST /api/auth/login.
func (c *Client) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me calls GET /api/auth/me and returns the current user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
