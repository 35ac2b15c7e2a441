package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"
)

var (
	_ repository.ContactRepository    = (*contactRepo)(nil)
	_ repository.CareTicketRepository = (*careTicketRepo)(nil)
)

type contactRepo struct{ pool *pgxpool.Pool }

func NewContactRepo(pool *pgxpool.Pool) *contactRepo {
	return &contactRepo{pool: pool}
}

// Upsert inserts or updates a contact keyed by email and returns the stored row.
func (r *contactRepo) Upsert(ctx context.Context, tx repository.Tx, c *model.Contact) (*model.Contact, error) {
	const q = `
INSERT INTO contacts (id, name, email, phone, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$5)
ON CONFLICT (email) DO UPDATE SET
  name = COALESCE(NULLIF($2, ''), contacts.name),
  phone = COALESCE(NULLIF($4, ''), contacts.phone),
  updated_at = NOW()
RETURNING id, name, email, phone, created_at, updated_at;`

	row, err := pickRow(ctx, r.pool, tx, q, c.ID, c.Name, c.Email, c.Phone, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	out := &model.Contact{}
	var phone *string
	if err := row.Scan(&out.ID, &out.Name, &out.Email, &phone, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	if phone != nil {
		out.Phone = *phone
	}
	return out, nil
}

func (r *contactRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Contact, error) {
	const q = `SELECT id, name, email, phone, created_at, updated_at FROM contacts WHERE email=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	out := &model.Contact{}
	var phone *string
	if err := row.Scan(&out.ID, &out.Name, &out.Email, &phone, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if phone != nil {
		out.Phone = *phone
	}
	return out, nil
}

type careTicketRepo struct{ pool *pgxpool.Pool }

func NewCareTicketRepo(pool *pgxpool.Pool) *careTicketRepo {
	return &careTicketRepo{pool: pool}
}

func (r *careTicketRepo) Insert(ctx context.Context, tx repository.Tx, t *model.CareTicket) error {
	const q = `
INSERT INTO care_tickets (id, contact_id, subject, message, template_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6);`
	_, err := execSQL(ctx, r.pool, tx, q, t.ID, t.ContactID, t.Subject, t.Message, nullable(t.TemplateID), t.CreatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *careTicketRepo) ListByContact(ctx context.Context, tx repository.Tx, contactID string) ([]*model.CareTicket, error) {
	const q = `SELECT id, contact_id, subject, message, template_id, created_at FROM care_tickets WHERE contact_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, contactID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.CareTicket
	for rows.Next() {
		t := &model.CareTicket{}
		var templateID *string
		if err := rows.Scan(&t.ID, &t.ContactID, &t.Subject, &t.Message, &templateID, &t.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		if templateID != nil {
			t.TemplateID = *templateID
		}
		out = append(out, t)
	}
	return out, nil
}
