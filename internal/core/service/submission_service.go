package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/creativehub/services-hub/internal/core/domain"
	"github.com/creativehub/services-hub/internal/core/ports"
	"github.com/creativehub/services-hub/internal/pkg/metrics"
)

// SubmissionService logs accepted form submissions and, when archive sinks
// are configured, hands a copy to the dispatcher. Archiving never fails the
// request.
type SubmissionService struct {
	dispatcher ports.SubmissionDispatcher // nil when no sink is configured
	log        zerolog.Logger
	now        func() time.Time
}

func NewSubmissionService(dispatcher ports.SubmissionDispatcher, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{dispatcher: dispatcher, log: log, now: time.Now}
}

func (s *SubmissionService) SubmitContact(_ context.Context, msg domain.ContactMessage) error {
	s.log.Info().
		Str("name", msg.Name).
		Str("email", msg.Email).
		Str("content", msg.Message).
		Msg("contact form submission")

	metrics.FormSubmissionsTotal.WithLabelValues(string(domain.KindContact), "accepted").Inc()
	s.archive(msg.Submission(uuid.NewString(), s.now().UTC()))
	return nil
}

func (s *SubmissionService) SubmitServiceRequest(_ context.Context, req domain.ServiceRequest) error {
	s.log.Info().
		Str("name", req.Name).
		Str("email", req.Email).
		Str("service", req.Service).
		Str("details", req.Details).
		Msg("service request submission")

	metrics.FormSubmissionsTotal.WithLabelValues(string(domain.KindServiceRequest), "accepted").Inc()
	s.archive(req.Submission(uuid.NewString(), s.now().UTC()))
	return nil
}

func (s *SubmissionService) archive(sub domain.Submission) {
	if s.dispatcher == nil {
		return
	}
	if !s.dispatcher.TryEnqueue(sub) {
		metrics.ArchiveDeliveriesTotal.WithLabelValues("dispatcher", "dropped").Inc()
		s.log.Warn().Str("submission_id", sub.ID).Str("kind", string(sub.Kind)).Msg("archive queue full, submission not archived")
	}
}
