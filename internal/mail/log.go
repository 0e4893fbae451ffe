package mail

import (
	"context"

	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/model"
)

var _ model.Mailer = (*LogMailer)(nil)

// LogMailer records outbound mail in the log instead of delivering it.
// The body is not logged since it carries reset secrets.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg model.Message) error {
	m.log.InfoContext(ctx, "Mailer: message not delivered, smtp disabled",
		"to", msg.To, "subject", msg.Subject, "size", len(msg.HTML))
	return nil
}
