package worker

// notification_worker.go
// Processes notification jobs from NotificationQueue: workflow events
// (request fulfilled, shipment approved) and low-stock alerts, delivered
// over SMTP through the circuit breaker.

import (
	"context"
	"encoding/json"
	"errors"

	"stockroom/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotificationJobPayload is the job envelope sent to NotificationQueue.
type NotificationJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificationWorker sends notification emails through the SMTP circuit
// breaker so a downed relay fast-fails instead of blocking the pool.
type NotificationWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewNotificationWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *NotificationWorker {
	return &NotificationWorker{mailer: mailer, cb: cb}
}

// Process sends one notification email. A returned error triggers the pool's
// retry path; malformed payloads are dropped without retry.
func (w *NotificationWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload NotificationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("notification_worker: empty to_email — skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body)
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Warn().Str("to", payload.ToEmail).Msg("notification_worker: circuit open, deferring")
		} else {
			log.Error().Err(err).Str("to", payload.ToEmail).Msg("notification_worker: failed to send")
		}
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("notification_worker: sent")
	return nil
}
