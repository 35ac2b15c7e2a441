// File: internal/usecase/contact_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"template-checkout/internal/domain"
	"template-checkout/internal/domain/model"
	"template-checkout/internal/domain/ports/repository"
)

// Compile-time check
var _ ContactUseCase = (*contactUC)(nil)

// ContactUseCase is the contact sink. It runs off the payment path: a
// failed write here is logged and surfaced but never blocks an order.
type ContactUseCase interface {
	// Register upserts a contact by email, normalizing the phone number.
	Register(ctx context.Context, name, email, phone string) (*model.Contact, error)
	// OpenTicket files a customer-care request, creating the contact first
	// when the email has not been seen before.
	OpenTicket(ctx context.Context, name, email, subject, message, templateID string) (*model.CareTicket, error)
}

type contactUC struct {
	contacts repository.ContactRepository
	tickets  repository.CareTicketRepository
	txm      repository.TransactionManager
	log      *zerolog.Logger
}

func NewContactUseCase(contacts repository.ContactRepository, tickets repository.CareTicketRepository, txm repository.TransactionManager, log *zerolog.Logger) *contactUC {
	return &contactUC{contacts: contacts, tickets: tickets, txm: txm, log: log}
}

func (u *contactUC) Register(ctx context.Context, name, email, phone string) (*model.Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || !model.ValidEmail(email) {
		return nil, domain.ErrValidation
	}

	c := &model.Contact{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Phone: model.NormalizePhone(phone),
	}
	saved, err := u.contacts.Upsert(ctx, repository.NoTX, c)
	if err != nil {
		u.log.Error().Err(err).Str("email", email).Msg("contact upsert failed")
		return nil, err
	}
	u.log.Info().Str("contact_id", saved.ID).Msg("contact registered")
	return saved, nil
}

func (u *contactUC) OpenTicket(ctx context.Context, name, email, subject, message, templateID string) (*model.CareTicket, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !model.ValidEmail(email) || strings.TrimSpace(message) == "" {
		return nil, domain.ErrValidation
	}

	var ticket *model.CareTicket
	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		contact, err := u.contacts.FindByEmail(ctx, tx, email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if contact == nil {
			contact, err = u.contacts.Upsert(ctx, tx, &model.Contact{
				ID:    uuid.NewString(),
				Name:  strings.TrimSpace(name),
				Email: email,
			})
			if err != nil {
				return err
			}
		}
		ticket = &model.CareTicket{
			ID:         uuid.NewString(),
			ContactID:  contact.ID,
			Subject:    strings.TrimSpace(subject),
			Message:    strings.TrimSpace(message),
			TemplateID: templateID,
		}
		return u.tickets.Insert(ctx, tx, ticket)
	})
	if err != nil {
		u.log.Error().Err(err).Str("email", email).Msg("care ticket failed")
		return nil, err
	}
	u.log.Info().Str("ticket_id", ticket.ID).Msg("care ticket opened")
	return ticket, nil
}
