package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/pkg/auth"
	apperr "github.com/xyvra/marketplace-api/pkg/errors"
	"github.com/xyvra/marketplace-api/pkg/security"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", nil)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateWithSpecializations(_ context.Context, user *model.User, _ []uuid.UUID) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
		return nil
	}
	return apperr.NotFound("user", nil)
}

func (r *fakeUserRepo) ListServiceProviders(_ context.Context, _ string, _ model.Pagination) ([]*model.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) ReplaceSpecializations(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

func (r *fakeUserRepo) GetSpecializations(_ context.Context, _ uuid.UUID) ([]*model.Specialization, error) {
	return nil, nil
}

func (r *fakeUserRepo) GetUserSpecializations(_ context.Context, _ uuid.UUID) ([]*model.UserSpecialization, error) {
	return nil, nil
}

type resetEntry struct {
	code     string
	expires  time.Time
	verified bool
	used     bool
}

type fakeTokenRepo struct {
	codes map[uuid.UUID]*resetEntry
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{codes: make(map[uuid.UUID]*resetEntry)}
}

func (r *fakeTokenRepo) StoreResetCode(_ context.Context, userID uuid.UUID, code string, expiry time.Time) error {
	r.codes[userID] = &resetEntry{code: code, expires: expiry}
	return nil
}

func (r *fakeTokenRepo) VerifyResetCode(_ context.Context, userID uuid.UUID, code string) error {
	entry, ok := r.codes[userID]
	if !ok || entry.code != code || entry.used || time.Now().After(entry.expires) {
		return apperr.BadRequest("invalid or expired reset code", nil)
	}
	entry.verified = true
	return nil
}

func (r *fakeTokenRepo) ConsumeResetCode(_ context.Context, userID uuid.UUID, code string) error {
	entry, ok := r.codes[userID]
	if !ok || entry.code != code || !entry.verified || entry.used {
		return apperr.BadRequest("invalid or expired reset code", nil)
	}
	entry.used = true
	return nil
}

type fakeEmailService struct {
	verifications []string
	resets        []string
	welcomes      []string
}

func (s *fakeEmailService) SendVerification(_ context.Context, email, _, code string) error {
	s.verifications = append(s.verifications, email+":"+code)
	return nil
}

func (s *fakeEmailService) SendPasswordReset(_ context.Context, email, _, code string) error {
	s.resets = append(s.resets, email+":"+code)
	return nil
}

func (s *fakeEmailService) SendWelcome(_ context.Context, email, _ string) error {
	s.welcomes = append(s.welcomes, email)
	return nil
}

func (s *fakeEmailService) SendCustom(_ context.Context, _, _, _ string) error { return nil }

func newTestService() (*Service, *fakeUserRepo, *fakeTokenRepo, *fakeEmailService) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	emailSvc := &fakeEmailService{}
	jwtSvc := auth.NewJWTService("test-secret", "test-refresh-secret", "marketplace-api",
		time.Hour, 24*time.Hour)
	hasher := security.NewBcryptHasher(4)
	svc := NewService(userRepo, tokenRepo, jwtSvc, hasher, emailSvc, nil)
	return svc, userRepo, tokenRepo, emailSvc
}

func register(t *testing.T, svc *Service) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Jane Mwangi",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesInactiveUserWithCode(t *testing.T) {
	svc, _, _, emailSvc := newTestService()

	user := register(t, svc)
	assert.Equal(t, 0, user.IsActive)
	require.NotNil(t, user.VerificationCode)
	assert.Len(t, *user.VerificationCode, 4)
	require.Len(t, emailSvc.verifications, 1)
	assert.True(t, strings.HasPrefix(emailSvc.verifications[0], "jane@example.com:"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Other",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrConflict, apperr.CodeOf(err))
}

func TestVerifyEmailActivatesAccount(t *testing.T) {
	svc, repo, _, emailSvc := newTestService()
	user := register(t, svc)
	code := *user.VerificationCode

	err := svc.VerifyEmail(context.Background(), &model.VerifyEmailRequest{
		Email: user.Email,
		Code:  code,
	})
	require.NoError(t, err)

	stored := repo.users[user.ID]
	assert.Equal(t, 1, stored.IsActive)
	assert.Nil(t, stored.VerificationCode)
	assert.NotNil(t, stored.EmailVerifiedAt)
	assert.Equal(t, []string{user.Email}, emailSvc.welcomes)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := register(t, svc)

	err := svc.VerifyEmail(context.Background(), &model.VerifyEmailRequest{
		Email: user.Email,
		Code:  "0000",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrBadRequest, apperr.CodeOf(err))
}

func TestLoginBeforeVerificationForbidden(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := register(t, svc)

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrForbidden, apperr.CodeOf(err))
}

func TestLoginAfterVerification(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := register(t, svc)
	require.NoError(t, svc.VerifyEmail(context.Background(), &model.VerifyEmailRequest{
		Email: user.Email,
		Code:  *user.VerificationCode,
	}))

	tokens, loggedIn, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := register(t, svc)

	_, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "wrong-pass",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ErrUnauthorized, apperr.CodeOf(err))
}

func TestSendResetCodeUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, emailSvc := newTestService()

	err := svc.SendResetCode(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, emailSvc.resets)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, repo, tokenRepo, emailSvc := newTestService()
	user := register(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.SendResetCode(ctx, user.Email))
	require.Len(t, emailSvc.resets, 1)
	code := tokenRepo.codes[user.ID].code

	require.NoError(t, svc.VerifyResetCode(ctx, &model.VerifyResetCodeRequest{
		Email: user.Email,
		Code:  code,
	}))

	oldHash := repo.users[user.ID].PasswordHash
	require.NoError(t, svc.ResetPassword(ctx, &model.ResetPasswordRequest{
		Email:    user.Email,
		Code:     code,
		Password: "newsecret",
	}))
	assert.NotEqual(t, oldHash, repo.users[user.ID].PasswordHash)

	// A consumed code cannot be replayed.
	err := svc.ResetPassword(ctx, &model.ResetPasswordRequest{
		Email:    user.Email,
		Code:     code,
		Password: "another-one",
	})
	require.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := register(t, svc)
	require.NoError(t, svc.VerifyEmail(context.Background(), &model.VerifyEmailRequest{
		Email: user.Email,
		Code:  *user.VerificationCode,
	}))

	tokens, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := register(t, svc)
	require.NoError(t, svc.VerifyEmail(context.Background(), &model.VerifyEmailRequest{
		Email: user.Email,
		Code:  *user.VerificationCode,
	}))

	tokens, _, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    user.Email,
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrUnauthorized, apperr.CodeOf(err))
}
