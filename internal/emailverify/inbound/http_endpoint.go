package inbound

import (
	"github.com/shandysiswandi/mailotp/internal/emailverify/usecase"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
)

// HTTPEndpoint exposes the code request and verification endpoints.
type HTTPEndpoint struct {
	uc uc
}

// SendCode issues a verification code and emails it.
// @Summary Send verification code
// @Description Issues a one-time code for the email and delivers it. Any earlier code for the same email stops working.
// @Tags Email Verification
// @Accept json
// @Produce json
// @Param request body SendCodeRequest true "Send code payload"
// @Success 200 {object} router.successResponse{data=SendCodeResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Invalid email"
// @Failure 429 {object} router.errorResponse "Too many requests"
// @Failure 503 {object} router.errorResponse "Failed to send code"
// @Router /send-code [post]
func (h *HTTPEndpoint) SendCode(r *router.Request) (any, error) {
	var req SendCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{
		Email:  req.Email,
		Origin: r.ClientIP(),
	})
	if err != nil {
		return nil, err
	}

	return SendCodeResponse{
		ExpiresAt:  resp.ExpiresAt,
		TTLSeconds: resp.TTLSeconds,
	}, nil
}

// VerifyCode checks a submitted code.
// @Summary Verify code
// @Description Consumes the pending code for the email when it matches.
// @Tags Email Verification
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Verify code payload"
// @Success 200 {object} router.successResponse{data=VerifyCodeResponse} "Email verified"
// @Failure 400 {object} router.errorResponse "No code requested, code expired or incorrect code"
// @Failure 422 {object} router.errorResponse "Email and code required"
// @Failure 429 {object} router.errorResponse "Too many incorrect attempts"
// @Router /verify-code [post]
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SubmitCode(r.Context(), usecase.SubmitCodeInput{
		Email:  req.Email,
		Code:   req.Code,
		Origin: r.ClientIP(),
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{
		Email:      resp.Email,
		VerifiedAt: resp.VerifiedAt,
	}, nil
}

// Health reports liveness.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} router.successResponse "ok"
// @Router /health [get]
func (h *HTTPEndpoint) Health(*router.Request) (any, error) {
	return HealthResponse{}, nil
}
