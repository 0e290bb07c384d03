package domain

import "time"

type SubmissionKind string

const (
	KindContact        SubmissionKind = "contact"
	KindServiceRequest SubmissionKind = "service_request"
)

// ContactMessage is a validated contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// ServiceRequest is a validated request for one of the offered services.
type ServiceRequest struct {
	Name    string
	Email   string
	Service string
	Details string
}

// Submission is the flattened form of either form, as handed to archive sinks.
// Body holds the contact message or the request details.
type Submission struct {
	ID         string         `json:"id"`
	Kind       SubmissionKind `json:"kind"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Service    string         `json:"service,omitempty"`
	Body       string         `json:"body"`
	ReceivedAt time.Time      `json:"received_at"`
}

func (m ContactMessage) Submission(id string, at time.Time) Submission {
	return Submission{
		ID:         id,
		Kind:       KindContact,
		Name:       m.Name,
		Email:      m.Email,
		Body:       m.Message,
		ReceivedAt: at,
	}
}

func (r ServiceRequest) Submission(id string, at time.Time) Submission {
	return Submission{
		ID:         id,
		Kind:       KindServiceRequest,
		Name:       r.Name,
		Email:      r.Email,
		Service:    r.Service,
		Body:       r.Details,
		ReceivedAt: at,
	}
}
