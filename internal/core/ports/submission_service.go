package ports

import (
	"context"

	"github.com/creativehub/services-hub/internal/core/domain"
)

// SubmissionService accepts validated form submissions.
type SubmissionService interface {
	SubmitContact(ctx context.Context, msg domain.ContactMessage) error
	SubmitServiceRequest(ctx context.Context, req domain.ServiceRequest) error
}

// SubmissionSink receives archived copies of submissions (document store,
// message broker). Sinks are optional and run off the request path.
type SubmissionSink interface {
	Name() string
	Deliver(ctx context.Context, s domain.Submission) error
}

// SubmissionDispatcher hands submissions to the sinks asynchronously.
// TryEnqueue reports false when the submission was dropped.
type SubmissionDispatcher interface {
	TryEnqueue(s domain.Submission) bool
}
