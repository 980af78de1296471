package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/internal/model"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"gorm.io/gorm"
)

// ErrDuplicateEmail is returned by Create when the email is taken
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "Create")

	start := time.Now()
	err := r.db.WithContext(ctx).Create(user).Error
	duration := time.Since(start)

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.WarnWithContext(ctx, "Email already registered").
			String("email", user.Email).
			Duration(duration).
			Log()
		return ErrDuplicateEmail
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(err).
			Log()
		return fmt.Errorf("create user: %w", err)
	}

	logger.DebugWithContext(ctx, "User created").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "GetByEmail")

	start := time.Now()
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	duration := time.Since(start)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.DebugWithContext(ctx, "User not found").
			String("email", email).
			Duration(duration).
			Log()
		return nil, ErrNotFound
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Duration(duration).
			Err(err).
			Log()
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// GetByResetToken finds the user holding digest whose token expires after now
func (r *UserRepository) GetByResetToken(ctx context.Context, digest string, now time.Time) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "GetByResetToken")

	var user model.User
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expiry > ?", digest, now).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to look up reset token").Err(err).Log()
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}
	return &user, nil
}

// SetResetToken writes the digest and its expiry in one statement
func (r *UserRepository) SetResetToken(ctx context.Context, userID uint, digest string, expiry time.Time) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "SetResetToken")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token":        digest,
			"reset_token_expiry": expiry,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to store reset token").
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return fmt.Errorf("set reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearResetToken withdraws digest. A newer token stored by a concurrent
// request is left in place.
func (r *UserRepository) ClearResetToken(ctx context.Context, userID uint, digest string) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "ClearResetToken")

	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND reset_token = ?", userID, digest).
		Updates(map[string]interface{}{
			"reset_token":        nil,
			"reset_token_expiry": nil,
		}).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to clear reset token").
			Uint("user_id", userID).
			Err(err).
			Log()
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}

// ResetPassword stores the new hash and clears the token, but only while the
// row still holds digest and it has not expired at now. It returns false when
// another request consumed the token first or it expired meanwhile.
func (r *UserRepository) ResetPassword(ctx context.Context, userID uint, digest, passwordHash string, now time.Time) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "ResetPassword")

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND reset_token = ? AND reset_token_expiry > ?", userID, digest, now).
		Updates(map[string]interface{}{
			"password_hash":      passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to reset password").
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return false, fmt.Errorf("reset password: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
