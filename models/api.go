package models

import "time"

// Request and response bodies of the HTTP API. Request structs carry
// go-playground/validator tags checked by the handler layer.

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

type ChallengeResponse struct {
	Challenge string    `json:"challenge"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CodeRequest struct {
	Challenge string `json:"challenge" validate:"required"`
	Code      string `json:"code" validate:"required,len=6,numeric"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type EnrollmentResponse struct {
	Ticket          string    `json:"ticket"`
	Secret          string    `json:"secret"`
	ProvisioningURI string    `json:"provisioning_uri"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type EnrollmentConfirmRequest struct {
	Ticket string `json:"ticket" validate:"required"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

type ResetRequest struct {
	Email string `json:"email" validate:"required,max=254"`
}

type ResetGrantResponse struct {
	Grant     string    `json:"grant"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ResetCompleteRequest struct {
	Grant       string `json:"grant" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,max=1024"`
}

type AccountResponse struct {
	Email string `json:"email"`
}

// SummaryTextRequest is the body of POST /api/summaries. Remote callers
// submit text only; audio paths name files on the local machine and are
// accepted from the TUI alone.
type SummaryTextRequest struct {
	Text string `json:"text" validate:"required,max=262144"`
}

type SummaryJobResponse struct {
	JobID string `json:"job_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
