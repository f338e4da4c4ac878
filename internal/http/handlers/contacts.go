package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ldurand/contacthub/internal/config"
	"github.com/ldurand/contacthub/internal/domain/contact"
	"github.com/ldurand/contacthub/internal/http/middlewares"
	"github.com/ldurand/contacthub/internal/utils"
)

// ownerEmail always comes from the authenticated context, never the payload.
type ContactsStore interface {
	Create(ctx context.Context, ownerEmail string, req contact.CreateContactRequest) (contact.Contact, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]contact.Contact, error)
	Update(ctx context.Context, ownerEmail, contactID string, req contact.UpdateContactRequest) error
	Delete(ctx context.Context, ownerEmail, contactID string) error
}

type ContactsHandler struct {
	repo ContactsStore
}

func NewContactsHandler(repo ContactsStore) *ContactsHandler {
	return &ContactsHandler{repo: repo}
}

func ownerFromContext(ctx *gin.Context) (string, bool) {
	email, ok := middlewares.EmailFromContext(ctx)

	if !ok || email == "" {
		RespondUnAuthorized(ctx, "Missing identity")
		return "", false
	}

	return email, true
}

func (h *ContactsHandler) Create(ctx *gin.Context) {
	owner, ok := ownerFromContext(ctx)

	if !ok {
		return
	}

	var req contact.CreateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	c, err := h.repo.Create(cctx, owner, req)

	if err != nil {
		if errors.Is(err, contact.ErrDuplicate) {
			RespondBadRequest(ctx, "Contact already exists", nil)
			return
		}

		RespondInternal(ctx, "Could not create contact")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Contact successfully created",
		"data":    c,
	})
}

func (h *ContactsHandler) List(ctx *gin.Context) {
	owner, ok := ownerFromContext(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	contacts, err := h.repo.ListByOwner(cctx, owner)

	if err != nil {
		RespondInternal(ctx, "Could not list contacts")

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact list retrieved",
		"data":    contacts,
	})
}

func (h *ContactsHandler) Update(ctx *gin.Context) {
	owner, ok := ownerFromContext(ctx)

	if !ok {
		return
	}

	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "Invalid id", nil)
		return
	}

	var req contact.UpdateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// reject before touching the store
	if req.Empty() {
		RespondBadRequest(ctx, "At least one field must be updated", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Update(cctx, owner, id, req)

	if err != nil {
		switch {
		case errors.Is(err, contact.ErrNotFound):
			// covers foreign-owned ids too; existence is never revealed
			RespondNotFound(ctx, "Contact not found")
		case errors.Is(err, contact.ErrDuplicate):
			RespondBadRequest(ctx, "Contact already exists", nil)
		default:
			RespondInternal(ctx, "Could not update contact")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact successfully updated",
		"data":    req,
	})
}

func (h *ContactsHandler) Delete(ctx *gin.Context) {
	owner, ok := ownerFromContext(ctx)

	if !ok {
		return
	}

	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "Invalid id", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, owner, id)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found")
			return
		}

		RespondInternal(ctx, "Could not delete contact")
		return
	}

	ctx.Status(http.StatusNoContent)
}
