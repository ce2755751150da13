package auth

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/xyvra/marketplace-api/internal/cache"
	"github.com/xyvra/marketplace-api/internal/email"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/internal/repository"
	"github.com/xyvra/marketplace-api/pkg/auth"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
	"github.com/xyvra/marketplace-api/pkg/security"
)

const resetCodeExpiry = 1 * time.Hour

type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
	emailSvc  email.Service
	blacklist *cache.TokenBlacklist
}

func NewService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository,
	jwtSvc auth.JWTService, hasher security.PasswordHasher, emailSvc email.Service,
	blacklist *cache.TokenBlacklist) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		emailSvc:  emailSvc,
		blacklist: blacklist,
	}
}

// Register creates an inactive account and emails a 4-digit activation code.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperr.Conflict("email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code := verificationCode()
	user := &model.User{
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     hash,
		VerificationCode: &code,
		IsActive:         0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.emailSvc.SendVerification(ctx, user.Email, user.Name, code); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
	}

	return user, nil
}

// VerifyEmail activates the account when the submitted code matches.
func (s *Service) VerifyEmail(ctx context.Context, req *model.VerifyEmailRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.VerificationCode == nil || *user.VerificationCode != req.Code {
		return apperr.BadRequest("invalid verification code", nil)
	}

	now := time.Now()
	user.VerificationCode = nil
	user.IsActive = 1
	user.EmailVerifiedAt = &now

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send welcome email")
	}

	return nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, *model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, apperr.Unauthorized("invalid credentials", nil)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, nil, apperr.Unauthorized("invalid credentials", nil)
	}

	if user.IsActive != 1 {
		return nil, nil, apperr.Forbidden("account is not active, please verify your email", nil)
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return tokens, user, nil
}

// Logout revokes the current access token until its natural expiry.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.Get(ctx, userID)
}

func (s *Service) Logout(ctx context.Context, claims *model.TokenClaims) error {
	ttl := time.Until(claims.ExpiresAt)
	if err := s.blacklist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token", err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsActive != 1 {
		return nil, apperr.Forbidden("account is not active", nil)
	}

	return s.generateTokens(user)
}

// SendResetCode mails a 4-digit reset code. A missing account is not an
// error so the endpoint cannot be used to probe for emails.
func (s *Service) SendResetCode(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		log.Warn().Str("email", emailAddr).Msg("reset code requested for unknown email")
		return nil
	}

	code := verificationCode()
	if err := s.tokenRepo.StoreResetCode(ctx, user.ID, code, time.Now().Add(resetCodeExpiry)); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, user.Name, code); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

func (s *Service) VerifyResetCode(ctx context.Context, req *model.VerifyResetCodeRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return apperr.BadRequest("invalid or expired reset code", nil)
	}
	return s.tokenRepo.VerifyResetCode(ctx, user.ID, req.Code)
}

func (s *Service) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return apperr.BadRequest("invalid or expired reset code", nil)
	}

	if err := s.tokenRepo.ConsumeResetCode(ctx, user.ID, req.Code); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	access, _, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// verificationCode returns a 4-digit numeric code in [1000, 9999].
func verificationCode() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}
