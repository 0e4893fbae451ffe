package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/model"
)

var _ model.Mailer = (*ArchivingMailer)(nil)

// ArchivingMailer records messages the wrapped mailer failed to deliver.
// Bodies are never archived since they may carry reset links. The delivery
// error is still returned to the caller.
type ArchivingMailer struct {
	next    model.Mailer
	storage model.Storage
	log     *logger.Logger
	now     func() time.Time
}

func NewArchivingMailer(next model.Mailer, storage model.Storage, log *logger.Logger) *ArchivingMailer {
	return &ArchivingMailer{
		next:    next,
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

type archivedMessage struct {
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

func (m *ArchivingMailer) Send(ctx context.Context, msg model.Message) error {
	sendErr := m.next.Send(ctx, msg)
	if sendErr == nil {
		return nil
	}

	failedAt := m.now().UTC()
	key := fmt.Sprintf("undelivered/%s/%s.json", failedAt.Format("2006-01-02"), uuid.New())

	body, err := json.Marshal(archivedMessage{
		To:       msg.To,
		Subject:  msg.Subject,
		Error:    sendErr.Error(),
		FailedAt: failedAt,
	})
	if err != nil {
		m.log.ErrorContext(ctx, "Mailer: failed to encode undelivered message", "error", err)
		return sendErr
	}

	if err := m.storage.Upload(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		m.log.ErrorContext(ctx, "Mailer: failed to archive undelivered message", "key", key, "error", err)
		return sendErr
	}

	m.log.WarnContext(ctx, "Mailer: undelivered message archived", "key", key, "to", msg.To)
	return sendErr
}
