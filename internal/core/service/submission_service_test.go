package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/creativehub/services-hub/internal/core/domain"
)

type stubDispatcher struct {
	accept bool
	got    []domain.Submission
}

func (d *stubDispatcher) TryEnqueue(s domain.Submission) bool {
	d.got = append(d.got, s)
	return d.accept
}

func TestSubmissionService_SubmitContact_LogsSubmission(t *testing.T) {
	var buf bytes.Buffer
	svc := NewSubmissionService(nil, zerolog.New(&buf))

	err := svc.SubmitContact(context.Background(), domain.ContactMessage{
		Name: "Al", Email: "al@example.com", Message: "Hello there",
	})
	if err != nil {
		t.Fatalf("SubmitContact returned error: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	if entry["message"] != "contact form submission" || entry["email"] != "al@example.com" || entry["name"] != "Al" {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
}

func TestSubmissionService_SubmitServiceRequest_Archives(t *testing.T) {
	disp := &stubDispatcher{accept: true}
	svc := NewSubmissionService(disp, zerolog.Nop())

	err := svc.SubmitServiceRequest(context.Background(), domain.ServiceRequest{
		Name: "Bea", Email: "bea@example.com", Service: "Web Development", Details: "A new storefront",
	})
	if err != nil {
		t.Fatalf("SubmitServiceRequest returned error: %v", err)
	}
	if len(disp.got) != 1 {
		t.Fatalf("expected 1 archived submission, got %d", len(disp.got))
	}
	sub := disp.got[0]
	if sub.Kind != domain.KindServiceRequest || sub.Service != "Web Development" || sub.Body != "A new storefront" {
		t.Fatalf("unexpected submission: %+v", sub)
	}
	if sub.ID == "" || sub.ReceivedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be set: %+v", sub)
	}
}

func TestSubmissionService_FullQueueDoesNotFail(t *testing.T) {
	var buf bytes.Buffer
	disp := &stubDispatcher{accept: false}
	svc := NewSubmissionService(disp, zerolog.New(&buf))

	err := svc.SubmitContact(context.Background(), domain.ContactMessage{
		Name: "Cy", Email: "cy@example.com", Message: "Call me back",
	})
	if err != nil {
		t.Fatalf("a dropped archive copy must not fail the submission: %v", err)
	}
	if !strings.Contains(buf.String(), "archive queue full") {
		t.Fatalf("expected a warning about the dropped copy, got %q", buf.String())
	}
}
