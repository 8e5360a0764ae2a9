package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/daotreasury/internal/auth"
	"github.com/mmynk/daotreasury/internal/governance"
	"github.com/mmynk/daotreasury/internal/metrics"
	"github.com/mmynk/daotreasury/internal/middleware"
	"github.com/mmynk/daotreasury/pkg/api/apiconnect"
)

// Deps are the collaborators the RPC services need.
type Deps struct {
	Treasury      *governance.Treasury
	Authenticator auth.Authenticator
	JWTManager    *auth.JWTManager
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// Register mounts both Connect services on mux with logging, metrics and
// per-procedure auth interceptors.
func Register(mux *http.ServeMux, d Deps) {
	public := append(append([]string{}, PublicTreasuryProcedures...), PublicAuthProcedures...)
	interceptors := connect.WithInterceptors(
		d.Metrics.Interceptor(),
		middleware.LoggingInterceptor(d.Logger),
		middleware.ProcedureAuth(d.JWTManager, public...),
	)

	treasuryPath, treasuryHandler := apiconnect.NewTreasuryServiceHandler(
		NewTreasuryService(d.Treasury, d.Metrics, d.Logger),
		interceptors,
	)
	mux.Handle(treasuryPath, treasuryHandler)

	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		NewAuthService(d.Authenticator, d.JWTManager, d.Treasury, d.Logger),
		interceptors,
	)
	mux.Handle(authPath, authHandler)
}
