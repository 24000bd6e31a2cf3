package service

import (
	"context"

	"minakistock/internal/apierror"
	"minakistock/internal/dto"
	"minakistock/internal/worker"

	"github.com/google/uuid"
)

// ReportService enqueues inventory summary report jobs. The heavy lifting
// (PDF rendering, email dispatch) happens in the worker pool.
type ReportService interface {
	DispatchSummaryReport(ctx context.Context, req dto.SummaryReportRequest) (*dto.SummaryReportResponse, error)
}

type reportService struct {
	dispatcher *worker.Dispatcher
}

func NewReportService(dispatcher *worker.Dispatcher) ReportService {
	return &reportService{dispatcher: dispatcher}
}

func (s *reportService) DispatchSummaryReport(ctx context.Context, req dto.SummaryReportRequest) (*dto.SummaryReportResponse, error) {
	if req.LocationID != nil {
		if _, err := uuid.Parse(*req.LocationID); err != nil {
			return nil, apierror.Validation("location_id is not a valid uuid")
		}
	}
	if s.dispatcher == nil {
		return nil, apierror.New("report dispatcher unavailable")
	}

	payload := worker.ReportJobPayload{ToEmail: req.ToEmail}
	if req.LocationID != nil {
		payload.LocationID = req.LocationID
	}
	if err := s.dispatcher.EnqueueReport(ctx, payload); err != nil {
		return nil, err
	}
	return &dto.SummaryReportResponse{Status: "queued"}, nil
}
