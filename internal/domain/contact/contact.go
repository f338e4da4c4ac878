package contact

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      string    `json:"phone"`
	OwnerEmail string    `json:"-"` // stamped by the server, never client-supplied
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("contact not found")

// same phone twice for the same owner.
var ErrDuplicate = errors.New("contact already exists")

type CreateContactRequest struct {
	FirstName string `json:"firstName" binding:"required,min=1"`
	LastName  string `json:"lastName" binding:"required,min=1"`
	Phone     string `json:"phone" binding:"required,min=10,max=20"`
}

// Pointer fields so a PATCH can tell "absent" from "empty";
// only the supplied fields are applied.
type UpdateContactRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1"`
	Phone     *string `json:"phone" binding:"omitempty,min=10,max=20"`
}

func (r UpdateContactRequest) Empty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Phone == nil
}

// A factory to build a Contact from the incoming DTO, stamped with its owner.

func NewFromCreateRequest(ownerEmail string, req CreateContactRequest) Contact {
	now := time.Now().UTC()
	return Contact{
		ID:         uuid.NewString(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		OwnerEmail: ownerEmail,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
