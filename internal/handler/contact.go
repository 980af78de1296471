package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/internal/dto"
	apperrors "github.com/Payphone-Digital/addressbook/internal/errors"
	"github.com/Payphone-Digital/addressbook/internal/model"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/Payphone-Digital/addressbook/pkg/validation"
	"github.com/gin-gonic/gin"
)

// ContactService is implemented by service.ContactService
type ContactService interface {
	GetAll(ctx context.Context) ([]model.Contact, bool, error)
	GetByID(ctx context.Context, id uint) (*model.Contact, bool, error)
	Add(ctx context.Context, contact model.Contact) (model.Contact, error)
	Update(ctx context.Context, id uint, contact model.Contact) (*model.Contact, error)
	Delete(ctx context.Context, id uint) error
}

type ContactHandler struct {
	contactService ContactService
}

func NewContactHandler(contactService ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func sourceMessage(fromCache bool) string {
	if fromCache {
		return constants.MsgDataFromCache
	}
	return constants.MsgDataFromDatabase
}

// contactID parses the :id segment. Anything that is not a positive integer
// cannot name a contact.
func contactID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *ContactHandler) GetAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "GetContacts")

	contacts, fromCache, err := h.contactService.GetAll(ctx)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list contacts").Err(err).Log()
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildContactsResponse(sourceMessage(fromCache), dto.NewContactResponses(contacts)))
}

func (h *ContactHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "GetContactByID")

	id, ok := contactID(c)
	if !ok {
		c.JSON(http.StatusNotFound, constants.BuildErrorResponse(constants.MsgContactNotFound, nil))
		return
	}

	contact, fromCache, err := h.contactService.GetByID(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildContactResponse(sourceMessage(fromCache), dto.NewContactResponse(*contact)))
}

func (h *ContactHandler) Add(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "AddContact")

	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid contact payload").
			Any("details", validation.Messages(err)).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildResultResponse(false, constants.MsgInvalidContactData, nil))
		return
	}

	added, err := h.contactService.Add(ctx, req.ToModel())
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to add contact").Err(err).Log()
		_ = c.Error(err)
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildResultResponse(false, constants.MsgAddContactFailed, nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildResultResponse(true, constants.MsgContactAdded, []dto.ContactResponse{dto.NewContactResponse(added)}))
}

func (h *ContactHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "UpdateContact")

	id, ok := contactID(c)
	if !ok {
		c.JSON(http.StatusNotFound, constants.BuildResultResponse(false, constants.MsgContactNotFound, nil))
		return
	}

	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid contact payload").
			Uint("contact_id", id).
			Any("details", validation.Messages(err)).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildResultResponse(false, constants.MsgInvalidContactData, nil))
		return
	}

	updated, err := h.contactService.Update(ctx, id, req.ToModel())
	if err != nil {
		h.writeMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResultResponse(true, constants.MsgContactUpdated, []dto.ContactResponse{dto.NewContactResponse(*updated)}))
}

func (h *ContactHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, constants.ModuleHandler, "DeleteContact")

	id, ok := contactID(c)
	if !ok {
		c.JSON(http.StatusNotFound, constants.BuildResultResponse(false, constants.MsgContactNotFound, nil))
		return
	}

	if err := h.contactService.Delete(ctx, id); err != nil {
		h.writeMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildResultResponse(true, constants.MsgContactDeleted, nil))
}

func (h *ContactHandler) writeMutationError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := apperrors.ToHTTPStatus(err)
	message := constants.MsgInternalError
	if status == http.StatusNotFound {
		message = constants.MsgContactNotFound
	}
	c.JSON(status, constants.BuildResultResponse(false, message, nil))
}
