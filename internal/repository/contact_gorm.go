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

type GormContactRepository struct {
	db *gorm.DB
}

func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) GetAll(ctx context.Context) ([]model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "GetAll")

	start := time.Now()
	var contacts []model.Contact
	err := r.db.WithContext(ctx).Order("id").Find(&contacts).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list contacts").
			Duration(duration).
			Err(err).
			Log()
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	logger.DebugWithContext(ctx, "Contacts listed").
		Int("count", len(contacts)).
		Duration(duration).
		Log()
	return contacts, nil
}

func (r *GormContactRepository) GetByID(ctx context.Context, id uint) (*model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "GetByID")

	start := time.Now()
	var contact model.Contact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error
	duration := time.Since(start)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get contact").
			Uint("contact_id", id).
			Duration(duration).
			Err(err).
			Log()
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return &contact, nil
}

func (r *GormContactRepository) Add(ctx context.Context, contact model.Contact) (model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "Add")

	contact.ID = 0
	start := time.Now()
	err := r.db.WithContext(ctx).Create(&contact).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to add contact").
			Duration(duration).
			Err(err).
			Log()
		return model.Contact{}, fmt.Errorf("add contact: %w", err)
	}

	logger.DebugWithContext(ctx, "Contact added").
		Uint("contact_id", contact.ID).
		Duration(duration).
		Log()
	return contact, nil
}

func (r *GormContactRepository) Update(ctx context.Context, id uint, contact model.Contact) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "Update")

	result := r.db.WithContext(ctx).Model(&model.Contact{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"first_name": contact.FirstName,
			"last_name":  contact.LastName,
			"email":      contact.Email,
			"phone":      contact.Phone,
			"address":    contact.Address,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update contact").
			Uint("contact_id", id).
			Err(result.Error).
			Log()
		return false, fmt.Errorf("update contact %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormContactRepository) Delete(ctx context.Context, id uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleRepository, "Delete")

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Contact{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete contact").
			Uint("contact_id", id).
			Err(result.Error).
			Log()
		return false, fmt.Errorf("delete contact %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
