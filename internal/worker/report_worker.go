package worker

// report_worker.go
// Processes inventory summary report jobs: builds the summary, renders it to
// PDF, then hands delivery off to the email queue.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"minakistock/internal/dto"
	"minakistock/internal/infra"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReports.
type ReportJobPayload struct {
	LocationID *string `json:"location_id,omitempty"`
	ToEmail    string  `json:"to_email"`
}

// SummaryProvider supplies the current inventory projection. Satisfied by the
// summary service; declared here so the worker does not depend on it directly.
type SummaryProvider interface {
	GetInventorySummary(ctx context.Context, locationID *uuid.UUID) (*dto.InventorySummaryResponse, error)
}

// ReportWorker renders inventory summary PDFs and queues them for delivery.
type ReportWorker struct {
	summaries  SummaryProvider
	dispatcher *Dispatcher
	storageDir string
	defaultTo  string
}

func NewReportWorker(summaries SummaryProvider, dispatcher *Dispatcher, storageDir, defaultTo string) *ReportWorker {
	return &ReportWorker{
		summaries:  summaries,
		dispatcher: dispatcher,
		storageDir: storageDir,
		defaultTo:  defaultTo,
	}
}

// Process builds the summary and enqueues the email job. Errors propagate so
// the pool can retry.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}

	var locationID *uuid.UUID
	if payload.LocationID != nil {
		id, err := uuid.Parse(*payload.LocationID)
		if err != nil {
			log.Error().Str("location_id", *payload.LocationID).Msg("report_worker: invalid location id")
			return nil
		}
		locationID = &id
	}

	summary, err := w.summaries.GetInventorySummary(ctx, locationID)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}

	pdfPath, err := infra.GenerateSummaryPDF(w.storageDir, summary)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	to := payload.ToEmail
	if to == "" {
		to = w.defaultTo
	}
	if to == "" {
		log.Warn().Str("pdf", pdfPath).Msg("report_worker: no recipient, report generated but not sent")
		return nil
	}

	emailPayload := EmailJobPayload{
		ToEmail: to,
		Subject: fmt.Sprintf("Inventory summary %s", time.Now().Format("2006-01-02")),
		Body: fmt.Sprintf("Attached is the inventory summary generated on %s covering %d products.",
			time.Now().Format("2006-01-02 15:04 MST"), len(summary.Products)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailPayload); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}

	log.Info().Str("pdf", pdfPath).Str("to", to).Msg("report_worker: summary report queued for delivery")
	return nil
}
