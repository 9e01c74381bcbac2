package repository

import (
	"context"

	"emailcomposer/internal/domain/entity"
)

// MailSender delivers a composed message through the mail relay.
type MailSender interface {
	Send(ctx context.Context, msg entity.Message) error
}
