package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ldurand/contacthub/internal/domain/contact"
	"github.com/ldurand/contacthub/internal/http/handlers"
	"github.com/ldurand/contacthub/internal/http/middlewares"
)

// Fake contacts repository implementing handlers.ContactsStore

type fakeContactsRepo struct {
	createFn func(ctx context.Context, owner string, req contact.CreateContactRequest) (contact.Contact, error)
	listFn   func(ctx context.Context, owner string) ([]contact.Contact, error)
	updateFn func(ctx context.Context, owner, id string, req contact.UpdateContactRequest) error
	deleteFn func(ctx context.Context, owner, id string) error

	updateCalls int
}

func (f *fakeContactsRepo) Create(ctx context.Context, owner string, req contact.CreateContactRequest) (contact.Contact, error) {
	if f.createFn != nil {
		return f.createFn(ctx, owner, req)
	}
	return contact.NewFromCreateRequest(owner, req), nil
}

func (f *fakeContactsRepo) ListByOwner(ctx context.Context, owner string) ([]contact.Contact, error) {
	if f.listFn != nil {
		return f.listFn(ctx, owner)
	}
	return []contact.Contact{}, nil
}

func (f *fakeContactsRepo) Update(ctx context.Context, owner, id string, req contact.UpdateContactRequest) error {
	f.updateCalls++
	if f.updateFn != nil {
		return f.updateFn(ctx, owner, id, req)
	}
	return nil
}

func (f *fakeContactsRepo) Delete(ctx context.Context, owner, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, owner, id)
	}
	return nil
}

// asOwner stands in for the auth gate and stamps the identity on the context

func asOwner(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.CtxEmail, email)
		c.Next()
	}
}

func contactsRouter(owner string, repo *fakeContactsRepo) *gin.Engine {
	r := gin.New()
	h := handlers.NewContactsHandler(repo)

	grp := r.Group("/contact", asOwner(owner))
	grp.GET("/", h.List)
	grp.POST("/", h.Create)
	grp.PATCH("/:id", h.Update)
	grp.DELETE("/:id", h.Delete)

	return r
}

func TestCreateContactHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		repo       *fakeContactsRepo
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid contact",
			body:       `{"firstName":"John","lastName":"Doe","phone":"0612345678"}`,
			repo:       &fakeContactsRepo{},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate phone for owner",
			body: `{"firstName":"John","lastName":"Doe","phone":"0612345678"}`,
			repo: &fakeContactsRepo{
				createFn: func(ctx context.Context, owner string, req contact.CreateContactRequest) (contact.Contact, error) {
					return contact.Contact{}, contact.ErrDuplicate
				},
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Contact already exists",
		},
		{
			name:       "phone too short",
			body:       `{"firstName":"John","lastName":"Doe","phone":"061234"}`,
			repo:       &fakeContactsRepo{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error",
		},
		{
			name:       "phone too long",
			body:       `{"firstName":"John","lastName":"Doe","phone":"061234567890123456789"}`,
			repo:       &fakeContactsRepo{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error",
		},
		{
			name:       "missing last name",
			body:       `{"firstName":"John","phone":"0612345678"}`,
			repo:       &fakeContactsRepo{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := contactsRouter("alice@example.com", tc.repo)

			w := doJSON(t, r, http.MethodPost, "/contact/", tc.body)

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantError != "" {
				var resp struct {
					Error string `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if resp.Error != tc.wantError {
					t.Fatalf("got error %q, want %q", resp.Error, tc.wantError)
				}
			}
		})
	}
}

func TestCreateContact_OwnerEmailNotBindable(t *testing.T) {
	var gotOwner string

	repo := &fakeContactsRepo{
		createFn: func(ctx context.Context, owner string, req contact.CreateContactRequest) (contact.Contact, error) {
			gotOwner = owner
			return contact.NewFromCreateRequest(owner, req), nil
		},
	}

	r := contactsRouter("alice@example.com", repo)

	// a client trying to plant another owner gets the field silently dropped
	body := `{"firstName":"John","lastName":"Doe","phone":"0612345678","ownerEmail":"mallory@example.com"}`
	w := doJSON(t, r, http.MethodPost, "/contact/", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}

	if gotOwner != "alice@example.com" {
		t.Fatalf("owner stamped from payload instead of identity: %q", gotOwner)
	}
}

func TestListContactsHandler(t *testing.T) {
	repo := &fakeContactsRepo{
		listFn: func(ctx context.Context, owner string) ([]contact.Contact, error) {
			return []contact.Contact{
				{ID: uuid.NewString(), FirstName: "John", LastName: "Doe", Phone: "0612345678", OwnerEmail: owner},
			}, nil
		},
	}

	r := contactsRouter("alice@example.com", repo)

	w := doJSON(t, r, http.MethodGet, "/contact/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    []contact.Contact `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(resp.Data) != 1 || resp.Data[0].Phone != "0612345678" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestListContactsHandler_EmptyListIsNotAnError(t *testing.T) {
	r := contactsRouter("alice@example.com", &fakeContactsRepo{})

	w := doJSON(t, r, http.MethodGet, "/contact/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	var resp struct {
		Data []contact.Contact `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Data == nil || len(resp.Data) != 0 {
		t.Fatalf("expected empty array, got %+v", resp.Data)
	}
}

func TestUpdateContactHandler(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name          string
		path          string
		body          string
		repo          *fakeContactsRepo
		wantStatus    int
		wantError     string
		wantRepoCalls int
	}{
		{
			name:          "partial update",
			path:          "/contact/" + id,
			body:          `{"phone":"0698765432"}`,
			repo:          &fakeContactsRepo{},
			wantStatus:    http.StatusOK,
			wantRepoCalls: 1,
		},
		{
			name:          "empty body never reaches the store",
			path:          "/contact/" + id,
			body:          `{}`,
			repo:          &fakeContactsRepo{},
			wantStatus:    http.StatusBadRequest,
			wantError:     "At least one field must be updated",
			wantRepoCalls: 0,
		},
		{
			name:          "invalid id",
			path:          "/contact/not-a-uuid",
			body:          `{"phone":"0698765432"}`,
			repo:          &fakeContactsRepo{},
			wantStatus:    http.StatusBadRequest,
			wantError:     "Invalid id",
			wantRepoCalls: 0,
		},
		{
			name: "foreign or absent contact is the same 404",
			path: "/contact/" + id,
			body: `{"phone":"0698765432"}`,
			repo: &fakeContactsRepo{
				updateFn: func(ctx context.Context, owner, id string, req contact.UpdateContactRequest) error {
					return contact.ErrNotFound
				},
			},
			wantStatus:    http.StatusNotFound,
			wantError:     "Contact not found",
			wantRepoCalls: 1,
		},
		{
			name: "phone collision on update",
			path: "/contact/" + id,
			body: `{"phone":"0698765432"}`,
			repo: &fakeContactsRepo{
				updateFn: func(ctx context.Context, owner, id string, req contact.UpdateContactRequest) error {
					return contact.ErrDuplicate
				},
			},
			wantStatus:    http.StatusBadRequest,
			wantError:     "Contact already exists",
			wantRepoCalls: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := contactsRouter("alice@example.com", tc.repo)

			w := doJSON(t, r, http.MethodPatch, tc.path, tc.body)

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.repo.updateCalls != tc.wantRepoCalls {
				t.Fatalf("repo update called %d times, want %d", tc.repo.updateCalls, tc.wantRepoCalls)
			}

			if tc.wantError != "" {
				var resp struct {
					Error string `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if resp.Error != tc.wantError {
					t.Fatalf("got error %q, want %q", resp.Error, tc.wantError)
				}
			}
		})
	}
}

func TestDeleteContactHandler(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name       string
		path       string
		repo       *fakeContactsRepo
		wantStatus int
	}{
		{
			name:       "owned contact deleted",
			path:       "/contact/" + id,
			repo:       &fakeContactsRepo{},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "foreign or absent contact is the same 404",
			path: "/contact/" + id,
			repo: &fakeContactsRepo{
				deleteFn: func(ctx context.Context, owner, id string) error {
					return contact.ErrNotFound
				},
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			path:       "/contact/42",
			repo:       &fakeContactsRepo{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := contactsRouter("alice@example.com", tc.repo)

			w := doJSON(t, r, http.MethodDelete, tc.path, "")

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}
