package repository

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/addressbook/internal/model"
)

// ErrNotFound is returned by every store when the requested row is absent
var ErrNotFound = errors.New("record not found")

// ContactRepository is implemented by the in-memory and postgres stores.
// Update and Delete report a missing id as false, not as an error.
type ContactRepository interface {
	GetAll(ctx context.Context) ([]model.Contact, error)
	GetByID(ctx context.Context, id uint) (*model.Contact, error)
	Add(ctx context.Context, contact model.Contact) (model.Contact, error)
	Update(ctx context.Context, id uint, contact model.Contact) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}
