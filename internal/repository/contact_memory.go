package repository

import (
	"context"
	"sync"

	"github.com/Payphone-Digital/addressbook/internal/model"
)

// MemoryContactRepository keeps contacts in insertion order. Ids start at 1
// and are never reused.
type MemoryContactRepository struct {
	mu       sync.RWMutex
	contacts []model.Contact
	nextID   uint
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{nextID: 1}
}

func (r *MemoryContactRepository) GetAll(_ context.Context) ([]model.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Contact, len(r.contacts))
	copy(out, r.contacts)
	return out, nil
}

func (r *MemoryContactRepository) GetByID(_ context.Context, id uint) (*model.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		c := r.contacts[i]
		return &c, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryContactRepository) Add(_ context.Context, contact model.Contact) (model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact.ID = r.nextID
	r.nextID++
	r.contacts = append(r.contacts, contact)
	return contact, nil
}

func (r *MemoryContactRepository) Update(_ context.Context, id uint, contact model.Contact) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	contact.ID = id
	r.contacts[i] = contact
	return true, nil
}

func (r *MemoryContactRepository) Delete(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
	return true, nil
}

// must hold lock
func (r *MemoryContactRepository) indexOf(id uint) int {
	for i := range r.contacts {
		if r.contacts[i].ID == id {
			return i
		}
	}
	return -1
}
