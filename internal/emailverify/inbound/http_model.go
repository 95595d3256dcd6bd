package inbound

import "time"

type SendCodeRequest struct {
	Email string `json:"email"`
}

type SendCodeResponse struct {
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
}

func (SendCodeResponse) Message() string {
	return "Code sent"
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyCodeResponse struct {
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}

func (VerifyCodeResponse) Message() string {
	return "Email verified, registration complete"
}

type HealthResponse struct{}

func (HealthResponse) Message() string {
	return "ok"
}

func (HealthResponse) Data() any {
	return nil
}
