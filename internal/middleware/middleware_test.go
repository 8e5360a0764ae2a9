package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/daotreasury/internal/auth"
	"github.com/mmynk/daotreasury/pkg/api/apiconnect"
)

type echoRequest struct{}

type echoResponse struct {
	Caller string `json:"caller"`
}

const (
	publicProcedure  = "/test.v1.Echo/Public"
	privateProcedure = "/test.v1.Echo/Private"
)

func echo(ctx context.Context, _ *connect.Request[echoRequest]) (*connect.Response[echoResponse], error) {
	caller, ok := GetCaller(ctx)
	if !ok {
		return connect.NewResponse(&echoResponse{}), nil
	}
	return connect.NewResponse(&echoResponse{Caller: caller.Hex()}), nil
}

func setupEchoServer(t *testing.T, jwtManager *auth.JWTManager, logs *bytes.Buffer) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(logs, nil))
	opts := []connect.HandlerOption{
		connect.WithCodec(apiconnect.Codec{}),
		connect.WithInterceptors(LoggingInterceptor(logger), ProcedureAuth(jwtManager, publicProcedure)),
	}

	mux := http.NewServeMux()
	mux.Handle(publicProcedure, connect.NewUnaryHandler(publicProcedure, echo, opts...))
	mux.Handle(privateProcedure, connect.NewUnaryHandler(privateProcedure, echo, opts...))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

func call(t *testing.T, url, procedure, token string) (*connect.Response[echoResponse], error) {
	t.Helper()
	client := connect.NewClient[echoRequest, echoResponse](http.DefaultClient, url+procedure, connect.WithCodec(apiconnect.Codec{}))
	req := connect.NewRequest(&echoRequest{})
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return client.CallUnary(context.Background(), req)
}

func TestProcedureAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	var logs bytes.Buffer
	url := setupEchoServer(t, jwtManager, &logs)

	addr := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	token, _, err := jwtManager.Generate(addr)
	require.NoError(t, err)

	t.Run("public without token", func(t *testing.T) {
		resp, err := call(t, url, publicProcedure, "")
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.Caller)
		assert.NotEmpty(t, resp.Header().Get(RequestIDHeader))
	})

	t.Run("public with token", func(t *testing.T) {
		resp, err := call(t, url, publicProcedure, token)
		require.NoError(t, err)
		assert.Equal(t, addr.Hex(), resp.Msg.Caller)
	})

	t.Run("private without token", func(t *testing.T) {
		_, err := call(t, url, privateProcedure, "")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("private with bad token", func(t *testing.T) {
		_, err := call(t, url, privateProcedure, "garbage")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("private with token", func(t *testing.T) {
		resp, err := call(t, url, privateProcedure, token)
		require.NoError(t, err)
		assert.Equal(t, addr.Hex(), resp.Msg.Caller)
	})

	assert.Contains(t, logs.String(), "caller="+addr.Hex())
	assert.Contains(t, logs.String(), "code=unauthenticated")
}
