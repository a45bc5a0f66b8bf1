package console

import (
	"context"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// loginPayload mirrors the API's login response data.
type loginPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	OTPRequired  bool   `json:"otp_required"`
	User         *struct {
		Email      string `json:"email"`
		Role       string `json:"role"`
		IsVerified bool   `json:"is_verified"`
	} `json:"user"`
}

// LoginResult reports the outcome of a login attempt. When OTPRequired is
// true no session was stored; the caller must complete VerifyOTP.
type LoginResult struct {
	OTPRequired bool
	Session     Session
}

// SlotOption is one bookable appointment window.
type SlotOption struct {
	Slot   int    `json:"slot"`
	Window string `json:"window"`
}

// Login authenticates against the given portal and, on success, stores the
// session.
func (c *Client) Login(ctx context.Context, email, password string, portal domain.Role) (*LoginResult, error) {
	env, err := c.Post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
		"portal":   portal.String(),
	})
	if err != nil {
		return nil, err
	}
	return c.storeLogin(env)
}

// VerifyOTP completes an OTP challenge and stores the resulting session.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	env, err := c.Post(ctx, "/api/auth/verify-otp", map[string]string{
		"email": email,
		"code":  code,
	})
	if err != nil {
		return nil, err
	}
	return c.storeLogin(env)
}

// Refresh rotates the refresh token and updates the stored session.
func (c *Client) Refresh(ctx context.Context) error {
	session, ok := c.store.Session()
	if !ok || session.RefreshToken == "" {
		return &APIError{Message: "no session to refresh"}
	}

	env, err := c.Post(ctx, "/api/auth/refresh", map[string]string{
		"refresh_token": session.RefreshToken,
	})
	if err != nil {
		return err
	}

	var payload loginPayload
	if err := env.Decode(&payload); err != nil {
		return &APIError{Message: err.Error()}
	}
	session.AccessToken = payload.AccessToken
	session.RefreshToken = payload.RefreshToken
	if err := c.store.SetSession(session); err != nil {
		return &APIError{Message: err.Error()}
	}
	return nil
}

// Logout revokes the refresh token and clears the session. The local session
// is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	session, ok := c.store.Session()
	if ok && session.RefreshToken != "" {
		_, err := c.Post(ctx, "/api/auth/logout", map[string]string{
			"refresh_token": session.RefreshToken,
		})
		if err != nil {
			_ = c.store.Clear()
			return err
		}
	}
	return c.store.Clear()
}

// Slots lists the bookable appointment windows.
func (c *Client) Slots(ctx context.Context) ([]SlotOption, error) {
	env, err := c.Get(ctx, "/api/appointments/slots")
	if err != nil {
		return nil, err
	}
	var out []SlotOption
	if err := env.Decode(&out); err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	return out, nil
}

func (c *Client) storeLogin(env *Envelope) (*LoginResult, error) {
	var payload loginPayload
	if err := env.Decode(&payload); err != nil {
		return nil, &APIError{Message: err.Error()}
	}

	if payload.OTPRequired {
		return &LoginResult{OTPRequired: true}, nil
	}

	session := Session{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
	}
	if payload.User != nil {
		role, _ := domain.ParseRole(payload.User.Role)
		session.User = SessionUser{
			Email:      payload.User.Email,
			Role:       role,
			IsVerified: payload.User.IsVerified,
		}
	}
	if err := c.store.SetSession(session); err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	return &LoginResult{Session: session}, nil
}
