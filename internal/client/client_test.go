package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/daotreasury/internal/auth"
	"github.com/mmynk/daotreasury/internal/governance"
	"github.com/mmynk/daotreasury/internal/metrics"
	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/internal/service"
	"github.com/mmynk/daotreasury/internal/storage/sqlite"
	"github.com/mmynk/daotreasury/internal/tally"
	"github.com/mmynk/daotreasury/internal/units"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var beneficiary = common.HexToAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65")

type testServer struct {
	url   string
	clock *clock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "treasury.db"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := &clock{now: time.Now()}
	engine, err := governance.New(tally.Policy{
		StakeholderThreshold: units.MustParseEther("1"),
		VotingPeriod:         5 * time.Minute,
		Quorum:               1,
		MajorityPercent:      50,
		PayoutTiming:         tally.PayoutBeforeDeadline,
	},
		governance.WithJournal(store),
		governance.WithClock(clk.Now),
		governance.WithLogger(logger),
		governance.WithDeployment(models.Deployment{
			Deployer: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
			Address:  common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		}),
	)
	require.NoError(t, err)

	mux := http.NewServeMux()
	service.Register(mux, service.Deps{
		Treasury:      engine,
		Authenticator: auth.NewWalletAuthenticator(store, time.Minute),
		JWTManager:    auth.NewJWTManager("test-secret", time.Hour),
		Metrics:       metrics.New(),
		Logger:        logger,
	})
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return &testServer{url: server.URL, clock: clk}
}

func (s *testServer) member(t *testing.T) *Client {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	c := New(s.url, WithPrivateKey(key), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, c.Login(context.Background()))
	return c
}

func TestClient_PayoutScenario(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	a, b := srv.member(t), srv.member(t)

	for _, c := range []*Client{a, b} {
		resp, err := c.Contribute(ctx, units.MustParseEther("5"))
		require.NoError(t, err)
		assert.True(t, resp.Stakeholder)
	}

	total, err := a.TotalBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000000", total.Dec())

	p, err := a.CreateProposal(ctx, ProposalInput{
		Title:       "Audit",
		Description: "Pay for the contract audit",
		Beneficiary: beneficiary,
		Amount:      units.MustParseEther("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.Id)

	for _, c := range []*Client{a, b} {
		ev, err := c.Vote(ctx, p.Id, true)
		require.NoError(t, err)
		assert.Equal(t, beneficiary.Hex(), ev.Beneficiary)
		assert.True(t, ev.Choice)
	}

	votes, err := a.Votes(ctx, p.Id)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, a.Address().Hex(), votes[0].Voter)

	paid, err := a.Pay(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, "9000000000000000000", paid.TotalBalance)

	_, err = a.Pay(ctx, p.Id)
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	got, err := a.Proposal(ctx, p.Id)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Equal(t, a.Address().Hex(), got.Executor)
}

func TestClient_Status(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	small, big := srv.member(t), srv.member(t)

	_, err := small.Contribute(ctx, units.MustParseEther("0.5"))
	require.NoError(t, err)
	_, err = big.Contribute(ctx, units.MustParseEther("2"))
	require.NoError(t, err)

	st, err := small.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, small.Address(), st.Address)
	assert.True(t, st.Contributor)
	assert.False(t, st.Stakeholder)
	assert.Equal(t, "0.5", units.FormatEther(st.Contributed))

	_, err = small.StakeholderBalance(ctx)
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	bal, err := big.StakeholderBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", units.FormatEther(bal))

	stake, err := big.IsStakeholder(ctx)
	require.NoError(t, err)
	assert.True(t, stake)

	contributors, err := big.Contributors(ctx)
	require.NoError(t, err)
	require.Len(t, contributors.Contributors, 2)
	assert.Equal(t, 1, contributors.Stakeholders)

	dep, err := New(srv.url).Deployment(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", dep.Address)
}

func TestClient_Notices(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	a, outsider := srv.member(t), srv.member(t)

	_, err := a.Contribute(ctx, units.MustParseEther("1"))
	require.NoError(t, err)

	_, err = outsider.CreateProposal(ctx, ProposalInput{Title: "x", Beneficiary: beneficiary, Amount: units.MustParseEther("1")})
	notice, ok := Notice(err)
	assert.True(t, ok)
	assert.Equal(t, NoticeNotStakeholder, notice)

	p, err := a.CreateProposal(ctx, ProposalInput{Title: "Hosting", Beneficiary: beneficiary, Amount: units.MustParseEther("0.1")})
	require.NoError(t, err)

	_, err = a.Pay(ctx, p.Id)
	assert.Equal(t, NoticeInsufficientVotes, a.Explain(err))

	_, err = a.Vote(ctx, p.Id, true)
	require.NoError(t, err)
	_, err = a.Vote(ctx, p.Id, false)
	assert.Equal(t, NoticeAlreadyVoted, a.Explain(err))

	srv.clock.Advance(6 * time.Minute)
	_, err = a.Vote(ctx, p.Id, true)
	assert.Equal(t, NoticeVotingEnded, a.Explain(err))
}

func TestNotice(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   string
		wantOK bool
	}{
		{name: "nil", err: nil},
		{name: "revert wording", err: errors.New("VM Exception: Time has already passed"), want: NoticeVotingEnded, wantOK: true},
		{name: "connect error", err: connect.NewError(connect.CodeAlreadyExists, governance.ErrDuplicateVote), want: NoticeAlreadyVoted, wantOK: true},
		{name: "wrapped", err: errors.Join(errors.New("pay"), governance.ErrInsufficientVotes), want: NoticeInsufficientVotes, wantOK: true},
		{name: "unknown", err: errors.New("connection refused")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Notice(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoginWithoutKey(t *testing.T) {
	c := New("http://127.0.0.1:0")
	assert.ErrorIs(t, c.Login(context.Background()), ErrNoKey)
}
