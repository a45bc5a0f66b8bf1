package ports

import (
	"context"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// LoginInput carries the credentials and the portal the login came through.
// Portal must match the stored role of the account.
type LoginInput struct {
	Email    string
	Password string
	Portal   domain.Role
}

// TokenPair is an access token plus the opaque refresh token that renews it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is returned on a successful credential check. When the account
// is not yet verified, OTPRequired is true and no tokens are issued.
type LoginResult struct {
	Tokens      TokenPair
	User        *domain.User
	OTPRequired bool
}

// RegisterInput carries the data for creating a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     domain.Role
	ClinicID string
}

// AuthService defines authentication use cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// VerifyOTP checks the one-time code issued at login and, on success,
	// marks the account verified and returns a token pair.
	VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error)
	// Refresh rotates a refresh token, invalidating the presented one.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout revokes the refresh token; expired access tokens simply age out.
	Logout(ctx context.Context, refreshToken string) error
}
