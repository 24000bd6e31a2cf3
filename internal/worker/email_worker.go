package worker

// email_worker.go
// Processes email jobs from QueueEmail. Delivery goes through a circuit
// breaker so a dead SMTP relay fails fast instead of tying up workers.

import (
	"context"
	"encoding/json"

	"minakistock/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// EmailWorker sends queued mail through the SMTP relay.
type EmailWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

// Process sends one email, attaching the PDF when present. Errors propagate so
// the pool can retry and eventually dead-letter the job.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	var attachments []string
	if payload.PDFPath != "" {
		attachments = append(attachments, payload.PDFPath)
	}

	err := w.breaker.Execute(func() error {
		return w.mailer.Send([]string{payload.ToEmail}, payload.Subject, payload.Body, attachments...)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return err
	}

	log.Info().Str("to", payload.ToEmail).Msg("email_worker: email sent")
	return nil
}
