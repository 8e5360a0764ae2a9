package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/daotreasury/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "treasury.v1.AuthService"

// Procedure paths, one per RPC.
const (
	AuthServiceRequestChallengeProcedure = "/treasury.v1.AuthService/RequestChallenge"
	AuthServiceLoginProcedure            = "/treasury.v1.AuthService/Login"
	AuthServiceWhoAmIProcedure           = "/treasury.v1.AuthService/WhoAmI"
)

// AuthServiceClient is a client for the treasury.v1.AuthService service.
type AuthServiceClient interface {
	RequestChallenge(context.Context, *connect.Request[api.RequestChallengeRequest]) (*connect.Response[api.RequestChallengeResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	WhoAmI(context.Context, *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error)
}

// NewAuthServiceClient constructs a client for the treasury.v1.AuthService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &authServiceClient{
		requestChallenge: connect.NewClient[api.RequestChallengeRequest, api.RequestChallengeResponse](httpClient, baseURL+AuthServiceRequestChallengeProcedure, opts...),
		login:            connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		whoAmI:           connect.NewClient[api.WhoAmIRequest, api.WhoAmIResponse](httpClient, baseURL+AuthServiceWhoAmIProcedure, opts...),
	}
}

type authServiceClient struct {
	requestChallenge *connect.Client[api.RequestChallengeRequest, api.RequestChallengeResponse]
	login            *connect.Client[api.LoginRequest, api.LoginResponse]
	whoAmI           *connect.Client[api.WhoAmIRequest, api.WhoAmIResponse]
}

func (c *authServiceClient) RequestChallenge(ctx context.Context, req *connect.Request[api.RequestChallengeRequest]) (*connect.Response[api.RequestChallengeResponse], error) {
	return c.requestChallenge.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) WhoAmI(ctx context.Context, req *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
	return c.whoAmI.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of treasury.v1.AuthService.
type AuthServiceHandler interface {
	RequestChallenge(context.Context, *connect.Request[api.RequestChallengeRequest]) (*connect.Response[api.RequestChallengeResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	WhoAmI(context.Context, *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	requestChallengeHandler := connect.NewUnaryHandler(AuthServiceRequestChallengeProcedure, svc.RequestChallenge, opts...)
	loginHandler := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	whoAmIHandler := connect.NewUnaryHandler(AuthServiceWhoAmIProcedure, svc.WhoAmI, opts...)
	return "/treasury.v1.AuthService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRequestChallengeProcedure:
			requestChallengeHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		case AuthServiceWhoAmIProcedure:
			whoAmIHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) RequestChallenge(context.Context, *connect.Request[api.RequestChallengeRequest]) (*connect.Response[api.RequestChallengeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.AuthService.RequestChallenge"))
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.AuthService.Login"))
}

func (UnimplementedAuthServiceHandler) WhoAmI(context.Context, *connect.Request[api.WhoAmIRequest]) (*connect.Response[api.WhoAmIResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.AuthService.WhoAmI"))
}
