package inbound

import (
	"context"

	"github.com/shandysiswandi/mailotp/internal/emailverify/usecase"
	"github.com/shandysiswandi/mailotp/internal/pkg/router"
)

type uc interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) (*usecase.RequestCodeOutput, error)
	SubmitCode(ctx context.Context, in usecase.SubmitCodeInput) (*usecase.SubmitCodeOutput, error)
	DeliverIssuedCode(ctx context.Context, in usecase.DeliverIssuedCodeInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/health", end.Health)

	r.POST("/send-code", end.SendCode)
	r.POST("/verify-code", end.VerifyCode)
}
