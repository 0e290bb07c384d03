package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/creativehub/services-hub/internal/core/domain"
	"github.com/creativehub/services-hub/internal/core/ports"
	"github.com/creativehub/services-hub/internal/pkg/email"
	"github.com/creativehub/services-hub/internal/pkg/metrics"
)

const (
	contactReceived = "Contact form received."
	requestReceived = "Service request received."
	invalidPayload  = "Invalid request payload"
)

// SubmissionHandler serves the contact and service request forms. Both
// accept JSON or urlencoded bodies.
type SubmissionHandler struct {
	service ports.SubmissionService
}

func NewSubmissionHandler(service ports.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

type contactRequest struct {
	Name    string `json:"name" form:"name" validate:"min=2,max=50"`
	Email   string `json:"email" form:"email" validate:"emailshape"`
	Message string `json:"message" form:"message" validate:"min=5,max=1000"`
}

func (r *contactRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = email.Normalize(r.Email)
	r.Message = strings.TrimSpace(r.Message)
}

type serviceRequestRequest struct {
	Name    string `json:"name" form:"name" validate:"min=2,max=50"`
	Email   string `json:"email" form:"email" validate:"emailshape"`
	Service string `json:"service" form:"service" validate:"min=2,max=50"`
	Details string `json:"details" form:"details" validate:"min=5,max=1000"`
}

func (r *serviceRequestRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = email.Normalize(r.Email)
	r.Service = strings.TrimSpace(r.Service)
	r.Details = strings.TrimSpace(r.Details)
}

// Contact accepts a contact form submission.
//
// @Summary      Submit the contact form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact message"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /api/contact [post]
func (h *SubmissionHandler) Contact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, invalidPayload)
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return rejectForm(c, domain.KindContact, err)
	}

	msg := domain.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.service.SubmitContact(c.Request().Context(), msg); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, contactReceived)
}

// Request accepts a request for one of the offered services.
//
// @Summary      Request a service
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body  body      serviceRequestRequest  true  "Service request"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /api/request [post]
func (h *SubmissionHandler) Request(c echo.Context) error {
	var req serviceRequestRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, invalidPayload)
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return rejectForm(c, domain.KindServiceRequest, err)
	}

	sr := domain.ServiceRequest{Name: req.Name, Email: req.Email, Service: req.Service, Details: req.Details}
	if err := h.service.SubmitServiceRequest(c.Request().Context(), sr); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, requestReceived)
}

func rejectForm(c echo.Context, kind domain.SubmissionKind, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	metrics.FormSubmissionsTotal.WithLabelValues(string(kind), "rejected").Inc()
	return failFields(c, http.StatusBadRequest, ve.Violations)
}
