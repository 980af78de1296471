package service

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/internal/dto"
	apperrors "github.com/Payphone-Digital/addressbook/internal/errors"
	"github.com/Payphone-Digital/addressbook/internal/model"
	"github.com/Payphone-Digital/addressbook/internal/repository"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
)

type ContactService struct {
	repo              repository.ContactRepository
	cache             *CacheService
	notifier          *Notifier
	invalidateOnWrite bool
	now               func() time.Time
}

// NewContactService wires the store with an optional cache and notifier; nil
// disables either.
func NewContactService(repo repository.ContactRepository, cache *CacheService, notifier *Notifier, invalidateOnWrite bool) *ContactService {
	return &ContactService{
		repo:              repo,
		cache:             cache,
		notifier:          notifier,
		invalidateOnWrite: invalidateOnWrite,
		now:               time.Now,
	}
}

// GetAll returns every contact and whether the cache served them
func (s *ContactService) GetAll(ctx context.Context) ([]model.Contact, bool, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "GetAllContacts")

	contacts, fromCache, err := ReadThrough(ctx, s.cache, constants.CacheKeyContacts, s.repo.GetAll)
	if err != nil {
		return nil, false, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return contacts, fromCache, nil
}

// GetByID returns one contact and whether the cache served it
func (s *ContactService) GetByID(ctx context.Context, id uint) (*model.Contact, bool, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "GetContactByID")

	contact, fromCache, err := ReadThrough(ctx, s.cache, constants.ContactCacheKey(id), func(ctx context.Context) (*model.Contact, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, false, s.mapStoreError(err)
	}
	return contact, fromCache, nil
}

func (s *ContactService) Add(ctx context.Context, contact model.Contact) (model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "AddContact")

	added, err := s.repo.Add(ctx, contact)
	if err != nil {
		return model.Contact{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Contact added").Uint("contact_id", added.ID).Log()

	s.invalidate(ctx, added.ID)
	s.notifier.Notify(ctx, constants.QueueContactAdded, dto.ContactAddedEvent{
		ContactID: added.ID,
		FullName:  added.FullName(),
		Email:     added.Email,
		AddedAt:   s.now().UTC(),
	})
	return added, nil
}

// Update overwrites every field and returns the stored contact, read back
// from the store rather than the cache.
func (s *ContactService) Update(ctx context.Context, id uint, contact model.Contact) (*model.Contact, error) {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "UpdateContact")

	ok, err := s.repo.Update(ctx, id, contact)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !ok {
		return nil, apperrors.ErrContactNotFound
	}

	s.invalidate(ctx, id)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	logger.InfoWithContext(ctx, "Contact updated").Uint("contact_id", id).Log()
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, constants.ModuleService, "DeleteContact")

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !ok {
		return apperrors.ErrContactNotFound
	}

	s.invalidate(ctx, id)
	logger.InfoWithContext(ctx, "Contact deleted").Uint("contact_id", id).Log()
	return nil
}

func (s *ContactService) invalidate(ctx context.Context, id uint) {
	if !s.invalidateOnWrite {
		return
	}
	s.cache.Invalidate(ctx, constants.CacheKeyContacts, constants.ContactCacheKey(id))
}

func (s *ContactService) mapStoreError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrContactNotFound
	}
	return apperrors.WrapError(apperrors.ErrInternal, err)
}
