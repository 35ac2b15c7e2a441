package repository

import (
	"context"

	"template-checkout/internal/domain/model"
)

// ContactRepository upserts customer contacts by email.
type ContactRepository interface {
	Upsert(ctx context.Context, tx Tx, c *model.Contact) (*model.Contact, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Contact, error)
}

// CareTicketRepository stores customer-care requests.
type CareTicketRepository interface {
	Insert(ctx context.Context, tx Tx, t *model.CareTicket) error
	ListByContact(ctx context.Context, tx Tx, contactID string) ([]*model.CareTicket, error)
}
