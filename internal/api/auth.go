package api

import (
	"context"
	"fmt"

	"github.com/campusconnect/quad/internal/models"
)

type registerInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and returns it.
func (c *Client) Register(ctx context.Context, username, email, password string) (models.Account, error) {
	var account models.Account
	if username == "" || email == "" || password == "" {
		return account, fmt.Errorf("username, email and password are required")
	}

	err := c.postJSON(ctx, "/api/register", registerInput{
		Username: username,
		Email:    email,
		Password: password,
	}, &account)
	return account, err
}

// Login authenticates with email and password and returns the account.
func (c *Client) Login(ctx context.Context, email, password string) (models.Account, error) {
	var account models.Account
	if email == "" || password == "" {
		return account, fmt.Errorf("email and password are required")
	}

	err := c.postJSON(ctx, "/api/login", loginInput{Email: email, Password: password}, &account)
	return account, err
}
