package marketapi

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/atlasdata/alfurij-admin/internal/platform/errors"
)

// LoginResult is the credential pair returned by a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// Session converts the result into a Session.
func (r LoginResult) Session() Session {
	return Session{Token: r.Token, Admin: r.Admin}
}

// Login exchanges staff credentials for a bearer token. A rejected login
// carries the server's message, or none when the body has no message.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	req, err := jsonCall("auth", http.MethodPost, "/admin/login", map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}, "")
	if err != nil {
		return LoginResult{}, err
	}
	raw, err := c.do(ctx, req)
	if err != nil {
		return LoginResult{}, err
	}

	var result LoginResult
	if err := decodeOne(raw, &result); err != nil {
		return LoginResult{}, apperrors.Wrap(apperrors.CodeDecode, "Failed to login", err)
	}
	if strings.TrimSpace(result.Token) == "" {
		return LoginResult{}, apperrors.New(apperrors.CodeDecode, "Failed to login")
	}
	return result, nil
}

// PasswordChange is the payload for ChangePassword.
type PasswordChange struct {
	Current      string `json:"current_password"`
	New          string `json:"new_password"`
	Confirmation string `json:"password_confirmation"`
}

// ChangePassword changes the signed-in operator's password.
func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) error {
	req, err := jsonCall("auth", http.MethodPost, "/admin/change-password", change, "Failed to change password")
	if err != nil {
		return err
	}
	_, err = c.do(ctx, req)
	return err
}

// EmployeeInput is the payload for CreateEmployee.
type EmployeeInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateEmployee creates another staff account.
func (c *Client) CreateEmployee(ctx context.Context, input EmployeeInput) (Admin, error) {
	req, err := jsonCall("auth", http.MethodPost, "/admin/create-employee", input, "Failed to create employee")
	if err != nil {
		return Admin{}, err
	}
	var created Admin
	if err := c.doInto(ctx, req, &created, "employee", "admin", "user"); err != nil {
		return Admin{}, err
	}
	return created, nil
}
