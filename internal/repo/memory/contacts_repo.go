package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ldurand/contacthub/internal/domain/contact"
)

// In-memory contact store mirroring the postgres repo contract, including
// ownership scoping: a contact owned by another user is indistinguishable
// from a missing one.
type ContactsRepo struct {
	mu    sync.RWMutex
	items map[string]contact.Contact // keyed by contact ID
}

func NewContactsRepo() *ContactsRepo {
	return &ContactsRepo{
		items: make(map[string]contact.Contact),
	}
}

func (r *ContactsRepo) Create(ctx context.Context, ownerEmail string, req contact.CreateContactRequest) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.OwnerEmail == ownerEmail && existing.Phone == req.Phone {
			return contact.Contact{}, contact.ErrDuplicate
		}
	}

	c := contact.NewFromCreateRequest(ownerEmail, req)
	r.items[c.ID] = c

	return c, nil
}

func (r *ContactsRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contact.Contact, 0)

	for _, c := range r.items {
		if c.OwnerEmail == ownerEmail {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *ContactsRepo) Update(ctx context.Context, ownerEmail, contactID string, req contact.UpdateContactRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[contactID]

	if !ok || c.OwnerEmail != ownerEmail {
		return contact.ErrNotFound
	}

	if req.Phone != nil {
		for id, existing := range r.items {
			if id != contactID && existing.OwnerEmail == ownerEmail && existing.Phone == *req.Phone {
				return contact.ErrDuplicate
			}
		}
		c.Phone = *req.Phone
	}

	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}

	if req.LastName != nil {
		c.LastName = *req.LastName
	}

	c.UpdatedAt = time.Now().UTC()
	r.items[contactID] = c

	return nil
}

func (r *ContactsRepo) Delete(ctx context.Context, ownerEmail, contactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[contactID]

	if !ok || c.OwnerEmail != ownerEmail {
		return contact.ErrNotFound
	}

	delete(r.items, contactID)

	return nil
}
