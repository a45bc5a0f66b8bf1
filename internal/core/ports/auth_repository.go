package ports

import (
	"context"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// MarkVerified flips the is_verified flag after a successful OTP check.
	MarkVerified(ctx context.Context, id string) error
}
