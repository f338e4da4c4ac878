package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ldurand/contacthub/internal/domain/contact"
	"github.com/ldurand/contacthub/internal/observability"
)

// Every query here filters by owner_email. A contact owned by someone else
// behaves exactly like a contact that does not exist.
type ContactsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewContactsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ContactsRepo {
	return &ContactsRepo{pool: pool, prom: prom}
}

func (r *ContactsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ContactsRepo) Create(ctx context.Context, ownerEmail string, req contact.CreateContactRequest) (contact.Contact, error) {
	c := contact.NewFromCreateRequest(ownerEmail, req)

	err := r.observe("contacts.create", func() error {
		_, e := r.pool.Exec(ctx, `
			INSERT INTO contacts (id, first_name, last_name, phone, owner_email, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, c.ID, c.FirstName, c.LastName, c.Phone, c.OwnerEmail, c.CreatedAt, c.UpdatedAt)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err, "contacts_owner_phone_uniq") {
			return contact.Contact{}, contact.ErrDuplicate
		}
		return contact.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) ListByOwner(ctx context.Context, ownerEmail string) (contacts []contact.Contact, err error) {
	var rows pgx.Rows

	err = r.observe("contacts.list_by_owner", func() error {
		rows, err = r.pool.Query(ctx,
			`
		SELECT id, first_name, last_name, phone, owner_email, created_at, updated_at
		FROM contacts
		WHERE owner_email = $1
		ORDER BY created_at ASC, id ASC
		`,
			ownerEmail,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	contacts = make([]contact.Contact, 0)

	for rows.Next() {
		var c contact.Contact

		e := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.OwnerEmail, &c.CreatedAt, &c.UpdatedAt)

		if e != nil {
			err = e
			return
		}
		contacts = append(contacts, c)
	}

	e := rows.Err()

	if e != nil {
		if r.prom != nil {
			r.prom.DbErrorsTotal.WithLabelValues("contacts.list_by_owner", "rows_err").Inc()
		}
		err = e
		return
	}

	// an empty list is a valid result, not an error

	return
}

func (r *ContactsRepo) Update(ctx context.Context, ownerEmail, contactID string, req contact.UpdateContactRequest) (err error) {
	// build SET from the supplied fields only
	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if req.FirstName != nil {
		add("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		add("last_name", *req.LastName)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}

	add("updated_at", time.Now().UTC())

	args = append(args, contactID, ownerEmail)

	q := "UPDATE contacts SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)-1) +
		" AND owner_email = $" + strconv.Itoa(len(args))

	var tag pgconn.CommandTag

	err = r.observe("contacts.update", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, q, args...)
		return e
	})

	if err != nil {
		// the unique index also guards phone collisions introduced by updates
		if IsUniqueViolation(err, "contacts_owner_phone_uniq") {
			err = contact.ErrDuplicate
			return
		}
		return
	}

	if tag.RowsAffected() == 0 {
		err = contact.ErrNotFound
		return
	}

	return
}

// Delete removes a single contact from its owner's list

func (r *ContactsRepo) Delete(ctx context.Context, ownerEmail, contactID string) (err error) {
	var tag pgconn.CommandTag
	op := "contacts.delete"
	err = r.observe(op, func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1 AND owner_email = $2`, contactID, ownerEmail)

		return err
	})

	if err != nil {
		return
	}

	if tag.RowsAffected() == 0 {
		err = contact.ErrNotFound

		return
	}

	return
}
