package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Error codes form the closed taxonomy surfaced to callers. The assignment
// coordinator returns exactly one of the four assignment codes per failed
// precondition.
const (
	CodeTicketNotFound   = "TICKET_NOT_FOUND"
	CodeAgentNotFound    = "AGENT_NOT_FOUND"
	CodeAlreadyAssigned  = "ALREADY_ASSIGNED"
	CodeAgentUnavailable = "AGENT_UNAVAILABLE"
	CodeConflict         = "CONFLICT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeTransportFailed  = "TRANSPORT_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewTicketNotFound(ticketID uuid.UUID) error {
	return NewDomainError(CodeTicketNotFound, "ticket not found", http.StatusNotFound,
		map[string]any{"ticket_id": ticketID.String()})
}

func NewAgentNotFound(agentID uuid.UUID) error {
	return NewDomainError(CodeAgentNotFound, "agent not found", http.StatusNotFound,
		map[string]any{"agent_id": agentID.String()})
}

func NewAlreadyAssigned(ticketID, assigneeID uuid.UUID) error {
	return NewDomainError(CodeAlreadyAssigned, "ticket is already assigned to an agent", http.StatusConflict,
		map[string]any{"ticket_id": ticketID.String(), "assignee_id": assigneeID.String()})
}

func NewAgentUnavailable(agentID uuid.UUID) error {
	return NewDomainError(CodeAgentUnavailable, "agent is not available", http.StatusConflict,
		map[string]any{"agent_id": agentID.String()})
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewTransportError(err error) error {
	return &DomainError{
		Code:       CodeTransportFailed,
		Message:    "event transport failure",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", http.StatusNotFound, nil)
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Code extracts the taxonomy code from err, or CodeInternalError for
// untyped errors.
func Code(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code string) bool {
	return err != nil && Code(err) == code
}
