package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/internal/dto"
	apperrors "github.com/Payphone-Digital/addressbook/internal/errors"
	"github.com/Payphone-Digital/addressbook/internal/model"
	"github.com/Payphone-Digital/addressbook/internal/repository"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/Payphone-Digital/addressbook/pkg/mailer"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the credential persistence used by AuthService
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByResetToken(ctx context.Context, digest string, now time.Time) (*model.User, error)
	SetResetToken(ctx context.Context, userID uint, digest string, expiry time.Time) error
	ClearResetToken(ctx context.Context, userID uint, digest string) error
	ResetPassword(ctx context.Context, userID uint, digest, passwordHash string, now time.Time) (bool, error)
}

type AuthService struct {
	users      UserStore
	jwt        *JWTService
	mail       mailer.Sender
	notifier   *Notifier
	resetTTL   time.Duration
	bcryptCost int
	now        func() time.Time
	newToken   func() string
}

func NewAuthService(users UserStore, jwt *JWTService, mail mailer.Sender, notifier *Notifier, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		jwt:        jwt,
		mail:       mail,
		notifier:   notifier,
		resetTTL:   resetTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		newToken:   uuid.NewString,
	}
}

// HashResetToken is the digest stored in place of a reset token
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "Register")

	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return apperrors.ErrEmailExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, fmt.Errorf("hash password: %w", err))
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return apperrors.ErrEmailExists
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", user.ID).
		String("email", user.Email).
		Log()

	s.notifier.Notify(ctx, constants.QueueUserRegistered, dto.UserRegisteredEvent{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		RegisteredAt: s.now().UTC(),
	})
	return nil
}

// Login returns a signed token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "Login")

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		logger.WarnWithContext(ctx, "Login for unknown email").String("email", req.Email).Log()
		return "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.WarnWithContext(ctx, "Login with wrong password").Uint("user_id", user.ID).Log()
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged in").Uint("user_id", user.ID).Log()
	return token, nil
}

// ForgotPassword stores a fresh reset token and mails it. If the mail
// cannot be sent the token is withdrawn again.
func (s *AuthService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "ForgotPassword")

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrUserNotFound
	}
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token := s.newToken()
	digest := HashResetToken(token)
	expiry := s.now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, digest, expiry); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	body := fmt.Sprintf(constants.ResetEmailBodyPattern, token)
	if err := s.mail.Send(ctx, user.Email, constants.ResetEmailSubject, body); err != nil {
		logger.ErrorWithContext(ctx, "Reset email failed, withdrawing token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		if clearErr := s.users.ClearResetToken(ctx, user.ID, digest); clearErr != nil {
			logger.ErrorWithContext(ctx, "Failed to withdraw reset token").
				Uint("user_id", user.ID).
				Err(clearErr).
				Log()
		}
		return apperrors.WrapError(apperrors.ErrEmailDelivery, err)
	}

	logger.InfoWithContext(ctx, "Reset email sent").Uint("user_id", user.ID).Log()
	return nil
}

// ResetPassword consumes a valid unexpired token. Each token works once.
func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "ResetPassword")

	digest := HashResetToken(req.Token)
	now := s.now()
	user, err := s.users.GetByResetToken(ctx, digest, now)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrInvalidResetToken
	}
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !user.HasPendingReset(now) {
		logger.WarnWithContext(ctx, "Store returned a user without a pending reset").Uint("user_id", user.ID).Log()
		return apperrors.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, fmt.Errorf("hash password: %w", err))
	}

	ok, err := s.users.ResetPassword(ctx, user.ID, digest, string(hash), now)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !ok {
		return apperrors.ErrInvalidResetToken
	}

	logger.InfoWithContext(ctx, "Password reset").Uint("user_id", user.ID).Log()
	return nil
}
