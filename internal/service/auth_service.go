package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/daotreasury/internal/auth"
	"github.com/mmynk/daotreasury/internal/governance"
	"github.com/mmynk/daotreasury/pkg/api"
	"github.com/mmynk/daotreasury/pkg/api/apiconnect"
)

// PublicAuthProcedures can be called without a session token.
var PublicAuthProcedures = []string{
	apiconnect.AuthServiceRequestChallengeProcedure,
	apiconnect.AuthServiceLoginProcedure,
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	treasury      *governance.Treasury
	logger        *slog.Logger
}

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, treasury *governance.Treasury, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		treasury:      treasury,
		logger:        logger,
	}
}

// RequestChallenge returns the message the wallet has to sign.
func (s *AuthService) RequestChallenge(ctx context.Context, req *connect.Request[api.RequestChallengeRequest]) (*connect.Response[api.RequestChallengeResponse], error) {
	address, err := parseAddress(req.Msg.Address)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	message, expiresAt, err := s.authenticator.Challenge(ctx, address)
	if err != nil {
		s.logger.Error("Failed to issue challenge", "address", address.Hex(), "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.RequestChallengeResponse{
		Message:   message,
		ExpiresAt: expiresAt.Unix(),
	}), nil
}

// Login verifies the signed challenge and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	address, err := parseAddress(req.Msg.Address)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	signature, err := auth.ParseSignature(req.Msg.Signature)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	signer, err := s.authenticator.Authenticate(ctx, address, signature)
	if err != nil {
		s.logger.Warn("Login failed", "address", address.Hex(), "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}

	token, expiresAt, err := s.jwtManager.Generate(signer)
	if err != nil {
		s.logger.Error("Failed to generate token", "address", signer.Hex(), "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Wallet logged in", "address", signer.Hex())
	return connect.NewResponse(&api.LoginResponse{
		Token:     token,
		Address:   signer.Hex(),
		ExpiresAt: expiresAt.Unix(),
	}), nil
}

// WhoAmI returns the authenticated address and its standing.
func (s *AuthService) WhoAmI(ctx context.Context, req *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.WhoAmIResponse{
		Address:     caller.Hex(),
		Contributor: s.treasury.IsContributor(caller),
		Stakeholder: s.treasury.StakeholderStatus(caller),
	}), nil
}
