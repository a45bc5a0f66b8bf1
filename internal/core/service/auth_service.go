package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// OTPStore abstracts the one-time-code store (Redis).
type OTPStore interface {
	// Save persists the code for the email, replacing any prior code.
	Save(ctx context.Context, email, code string) error
	// Verify consumes the code. It returns domain.ErrOTPInvalid on mismatch
	// or expiry and domain.ErrOTPAttemptsExceeded after too many failures.
	Verify(ctx context.Context, email, code string) error
}

// RefreshTokenStore abstracts refresh-token persistence (Redis).
type RefreshTokenStore interface {
	Save(ctx context.Context, token, userID string) error
	// Consume resolves and deletes the token, so each refresh token is
	// usable exactly once. Unknown tokens yield domain.ErrRefreshTokenInvalid.
	Consume(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// OTPSender delivers a one-time code to the user (mail, SMS).
type OTPSender interface {
	Send(ctx context.Context, email, code string) error
}

// AuthService implements registration, login, OTP verification and
// refresh-token rotation.
type AuthService struct {
	repo      ports.AuthRepository
	otp       OTPStore
	refresh   RefreshTokenStore
	sender    OTPSender
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	repo ports.AuthRepository,
	otp OTPStore,
	refresh RefreshTokenStore,
	sender OTPSender,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{
		repo:      repo,
		otp:       otp,
		refresh:   refresh,
		sender:    sender,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates a new account. Customer accounts start unverified and must
// complete the OTP challenge on first login; staff-side accounts are created
// by an admin and are trusted immediately.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" || !in.Role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsVerified:   in.Role != domain.RoleCustomer,
		ClinicID:     in.ClinicID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", created.Email).Str("role", created.Role.String()).Msg("user registered")
	return created, nil
}

// Login authenticates a user against the portal they signed in through.
// A credential match on the wrong portal is reported as invalid credentials
// so the existence of the account on another portal is not leaked.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if in.Portal.Valid() && user.Role != in.Portal {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		if err := s.issueOTP(ctx, user.Email); err != nil {
			return nil, err
		}
		return &ports.LoginResult{User: user, OTPRequired: true}, nil
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", user.Email).Str("role", user.Role.String()).Msg("login succeeded")
	return &ports.LoginResult{Tokens: *tokens, User: user}, nil
}

// VerifyOTP consumes the pending one-time code, marks the account verified
// and issues the first token pair.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*ports.LoginResult, error) {
	if err := s.otp.Verify(ctx, email, code); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.IsVerified = true
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", user.Email).Msg("otp verified")
	return &ports.LoginResult{Tokens: *tokens, User: user}, nil
}

// Refresh rotates the refresh token: the presented token is consumed and a
// fresh pair is issued, so a leaked token works at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshTokenInvalid
	}

	userID, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh token. Access tokens age out on their own.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refresh.Revoke(ctx, refreshToken)
}

func (s *AuthService) issueOTP(ctx context.Context, email string) error {
	code, err := generateOTP(6)
	if err != nil {
		return err
	}
	if err := s.otp.Save(ctx, email, code); err != nil {
		return err
	}
	if s.sender != nil {
		if err := s.sender.Send(ctx, email, code); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("otp delivery failed")
		}
	}
	s.log.Info().Str("email", email).Msg("otp issued")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Save(ctx, refresh, user.ID); err != nil {
		return nil, err
	}

	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"role":     user.Role.String(),
		"verified": user.IsVerified,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateOTP returns an n-digit numeric code from crypto/rand.
func generateOTP(n int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < n; i++ {
		max.Mul(max, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}

// generateRefreshToken returns an opaque 256-bit hex token.
func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
