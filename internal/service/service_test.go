package service

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/daotreasury/internal/auth"
	"github.com/mmynk/daotreasury/internal/governance"
	"github.com/mmynk/daotreasury/internal/metrics"
	"github.com/mmynk/daotreasury/internal/middleware"
	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/internal/storage/sqlite"
	"github.com/mmynk/daotreasury/internal/tally"
	"github.com/mmynk/daotreasury/pkg/api"
	"github.com/mmynk/daotreasury/pkg/api/apiconnect"
)

type testEnv struct {
	url      string
	treasury apiconnect.TreasuryServiceClient
	auth     apiconnect.AuthServiceClient
	metrics  *metrics.Metrics
	engine   *governance.Treasury
	store    *sqlite.SQLiteStore
}

// setupTestServer creates a test server backed by a temp SQLite journal.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	return setupTestServerWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupTestServerWithLogger(t *testing.T, logger *slog.Logger) *testEnv {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	engine, err := governance.New(tally.Policy{
		StakeholderThreshold: uint256.NewInt(params.Ether),
		VotingPeriod:         5 * time.Minute,
		Quorum:               1,
		MajorityPercent:      50,
		PayoutTiming:         tally.PayoutBeforeDeadline,
	},
		governance.WithJournal(store),
		governance.WithLogger(logger),
		governance.WithDeployment(models.Deployment{
			Deployer: common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
			Address:  common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		}),
	)
	if err != nil {
		t.Fatalf("failed to create treasury: %v", err)
	}

	m := metrics.New()
	mux := http.NewServeMux()
	Register(mux, Deps{
		Treasury:      engine,
		Authenticator: auth.NewWalletAuthenticator(store, time.Minute),
		JWTManager:    auth.NewJWTManager("test-secret", time.Hour),
		Metrics:       m,
		Logger:        logger,
	})
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	return &testEnv{
		url:      server.URL,
		treasury: apiconnect.NewTreasuryServiceClient(http.DefaultClient, server.URL),
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		metrics:  m,
		engine:   engine,
		store:    store,
	}
}

type wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	token   string
}

// login creates a fresh key and signs in with it.
func (env *testEnv) login(t *testing.T) *wallet {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	addr := crypto.PubkeyToAddress(key.PublicKey)
	ctx := context.Background()

	challenge, err := env.auth.RequestChallenge(ctx, connect.NewRequest(&api.RequestChallengeRequest{Address: addr.Hex()}))
	if err != nil {
		t.Fatalf("RequestChallenge failed: %v", err)
	}
	sig, err := auth.SignMessage(key, challenge.Msg.Message)
	if err != nil {
		t.Fatalf("SignMessage failed: %v", err)
	}
	resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Address:   addr.Hex(),
		Signature: hexutil.Encode(sig),
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return &wallet{key: key, address: addr, token: resp.Msg.Token}
}

func withToken[T any](w *wallet, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if w != nil {
		req.Header().Set("Authorization", "Bearer "+w.token)
	}
	return req
}

func etherString(n uint64) string {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(params.Ether)).Dec()
}

func TestPayoutFlow(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	a, b := env.login(t), env.login(t)
	beneficiary := common.HexToAddress("0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65")

	for _, w := range []*wallet{a, b} {
		resp, err := env.treasury.Contribute(ctx, withToken(w, &api.ContributeRequest{Amount: etherString(5)}))
		if err != nil {
			t.Fatalf("Contribute failed: %v", err)
		}
		if !resp.Msg.Stakeholder {
			t.Error("expected 5 ether contributor to be a stakeholder")
		}
		if resp.Msg.Event.Label != models.LabelContributed {
			t.Errorf("expected label %q, got %q", models.LabelContributed, resp.Msg.Event.Label)
		}
	}

	total, err := env.treasury.GetTotalBalance(ctx, withToken[api.GetTotalBalanceRequest](nil, &api.GetTotalBalanceRequest{}))
	if err != nil {
		t.Fatalf("GetTotalBalance failed: %v", err)
	}
	if total.Msg.Balance != "10000000000000000000" {
		t.Errorf("expected total 10000000000000000000, got %s", total.Msg.Balance)
	}

	created, err := env.treasury.CreateProposal(ctx, withToken(a, &api.CreateProposalRequest{
		Title:       "Tooling",
		Description: "Buy a build server",
		Beneficiary: beneficiary.Hex(),
		Amount:      etherString(1),
	}))
	if err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}
	id := created.Msg.Proposal.Id
	if id != 0 {
		t.Errorf("expected first proposal id 0, got %d", id)
	}

	for _, w := range []*wallet{a, b} {
		resp, err := env.treasury.PerformVote(ctx, withToken(w, &api.PerformVoteRequest{ProposalId: id, Up: true}))
		if err != nil {
			t.Fatalf("PerformVote failed: %v", err)
		}
		if resp.Msg.Event.Beneficiary != beneficiary.Hex() || resp.Msg.Event.Amount != etherString(1) || !resp.Msg.Event.Choice {
			t.Errorf("unexpected vote event: %+v", resp.Msg.Event)
		}
	}

	paid, err := env.treasury.PayBeneficiary(ctx, withToken(a, &api.PayBeneficiaryRequest{ProposalId: id}))
	if err != nil {
		t.Fatalf("PayBeneficiary failed: %v", err)
	}
	if paid.Msg.TotalBalance != "9000000000000000000" {
		t.Errorf("expected total 9000000000000000000, got %s", paid.Msg.TotalBalance)
	}
	if paid.Msg.Event.Label != models.LabelPaid {
		t.Errorf("expected label %q, got %q", models.LabelPaid, paid.Msg.Event.Label)
	}

	_, err = env.treasury.PayBeneficiary(ctx, withToken(a, &api.PayBeneficiaryRequest{ProposalId: id}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected FailedPrecondition on second payout, got %v", err)
	}

	if got := testutil.ToFloat64(env.metrics.Payouts); got != 1 {
		t.Errorf("expected 1 payout recorded, got %v", got)
	}
	if got := testutil.ToFloat64(env.metrics.Balance); got != 9 {
		t.Errorf("expected balance gauge 9, got %v", got)
	}
	if got := testutil.ToFloat64(env.metrics.Rejections.WithLabelValues("pay", "already_paid")); got != 1 {
		t.Errorf("expected 1 already_paid rejection, got %v", got)
	}

	// Everything above was journaled before it was applied.
	events, err := env.store.ListEvents(ctx, 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 6 {
		t.Errorf("expected 6 journaled events, got %d", len(events))
	}
}

func TestErrorCodes(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	rich, poor := env.login(t), env.login(t)

	if _, err := env.treasury.Contribute(ctx, withToken(rich, &api.ContributeRequest{Amount: etherString(2)})); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if _, err := env.treasury.Contribute(ctx, withToken(poor, &api.ContributeRequest{Amount: "1000"})); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	created, err := env.treasury.CreateProposal(ctx, withToken(rich, &api.CreateProposalRequest{
		Title:       "Docs",
		Beneficiary: poor.address.Hex(),
		Amount:      etherString(1),
	}))
	if err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}
	id := created.Msg.Proposal.Id

	if _, err := env.treasury.PerformVote(ctx, withToken(poor, &api.PerformVoteRequest{ProposalId: id, Up: true})); err != nil {
		t.Fatalf("PerformVote failed: %v", err)
	}

	tests := []struct {
		name    string
		call    func() error
		want    connect.Code
		message string
	}{
		{
			name: "create without token",
			call: func() error {
				_, err := env.treasury.CreateProposal(ctx, withToken(nil, &api.CreateProposalRequest{}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "create as non stakeholder",
			call: func() error {
				_, err := env.treasury.CreateProposal(ctx, withToken(poor, &api.CreateProposalRequest{
					Title: "x", Beneficiary: poor.address.Hex(), Amount: "1",
				}))
				return err
			},
			want:    connect.CodePermissionDenied,
			message: "not a stakeholder",
		},
		{
			name: "bad beneficiary",
			call: func() error {
				_, err := env.treasury.CreateProposal(ctx, withToken(rich, &api.CreateProposalRequest{
					Title: "x", Beneficiary: "nobody", Amount: "1",
				}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "bad amount",
			call: func() error {
				_, err := env.treasury.Contribute(ctx, withToken(rich, &api.ContributeRequest{Amount: "1.5"}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "zero amount",
			call: func() error {
				_, err := env.treasury.Contribute(ctx, withToken(rich, &api.ContributeRequest{Amount: "0"}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate vote",
			call: func() error {
				_, err := env.treasury.PerformVote(ctx, withToken(poor, &api.PerformVoteRequest{ProposalId: id}))
				return err
			},
			want:    connect.CodeAlreadyExists,
			message: "double voting is not allowed",
		},
		{
			name: "unknown proposal",
			call: func() error {
				_, err := env.treasury.GetProposal(ctx, withToken(nil, &api.GetProposalRequest{Id: 99}))
				return err
			},
			want: connect.CodeNotFound,
		},
		{
			name: "pay as non stakeholder",
			call: func() error {
				_, err := env.treasury.PayBeneficiary(ctx, withToken(poor, &api.PayBeneficiaryRequest{ProposalId: id}))
				return err
			},
			want:    connect.CodePermissionDenied,
			message: "not a stakeholder",
		},
		{
			name: "stakeholder balance of non stakeholder",
			call: func() error {
				_, err := env.treasury.GetStakeholderBalance(ctx, withToken(poor, &api.GetStakeholderBalanceRequest{}))
				return err
			},
			want: connect.CodePermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := connect.CodeOf(err); got != tt.want {
				t.Errorf("expected code %v, got %v (%v)", tt.want, got, err)
			}
			if tt.message != "" {
				var connectErr *connect.Error
				if !errors.As(err, &connectErr) || !strings.Contains(connectErr.Message(), tt.message) {
					t.Errorf("expected message containing %q, got %v", tt.message, err)
				}
			}
		})
	}
}

func TestStatusQueries(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	w := env.login(t)

	status, err := env.treasury.IsContributor(ctx, withToken(w, &api.IsContributorRequest{}))
	if err != nil {
		t.Fatalf("IsContributor failed: %v", err)
	}
	if status.Msg.Contributor {
		t.Error("fresh wallet should not be a contributor")
	}

	if _, err := env.treasury.Contribute(ctx, withToken(w, &api.ContributeRequest{Amount: etherString(1)})); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}

	stake, err := env.treasury.GetStakeholderStatus(ctx, withToken(w, &api.GetStakeholderStatusRequest{}))
	if err != nil {
		t.Fatalf("GetStakeholderStatus failed: %v", err)
	}
	if !stake.Msg.Stakeholder {
		t.Error("1 ether contributor should be a stakeholder")
	}

	bal, err := env.treasury.GetStakeholderBalance(ctx, withToken(w, &api.GetStakeholderBalanceRequest{}))
	if err != nil {
		t.Fatalf("GetStakeholderBalance failed: %v", err)
	}
	if bal.Msg.Balance != etherString(1) {
		t.Errorf("expected stakeholder balance %s, got %s", etherString(1), bal.Msg.Balance)
	}

	cbal, err := env.treasury.GetContributorBalance(ctx, withToken(w, &api.GetContributorBalanceRequest{}))
	if err != nil {
		t.Fatalf("GetContributorBalance failed: %v", err)
	}
	if cbal.Msg.Balance != etherString(1) {
		t.Errorf("expected contributor balance %s, got %s", etherString(1), cbal.Msg.Balance)
	}

	who, err := env.auth.WhoAmI(ctx, withToken(w, &api.WhoAmIRequest{}))
	if err != nil {
		t.Fatalf("WhoAmI failed: %v", err)
	}
	if who.Msg.Address != w.address.Hex() || !who.Msg.Stakeholder || !who.Msg.Contributor {
		t.Errorf("unexpected WhoAmI response: %+v", who.Msg)
	}

	list, err := env.treasury.ListContributors(ctx, withToken[api.ListContributorsRequest](nil, &api.ListContributorsRequest{}))
	if err != nil {
		t.Fatalf("ListContributors failed: %v", err)
	}
	if len(list.Msg.Contributors) != 1 || list.Msg.Stakeholders != 1 {
		t.Errorf("unexpected contributors: %+v", list.Msg)
	}

	dep, err := env.treasury.GetDeployment(ctx, withToken[api.GetDeploymentRequest](nil, &api.GetDeploymentRequest{}))
	if err != nil {
		t.Fatalf("GetDeployment failed: %v", err)
	}
	if dep.Msg.Deployment.Deployer != "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" {
		t.Errorf("unexpected deployer %s", dep.Msg.Deployment.Deployer)
	}
}

func TestListEventsAndVotes(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	w := env.login(t)

	if _, err := env.treasury.Contribute(ctx, withToken(w, &api.ContributeRequest{Amount: etherString(3)})); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	created, err := env.treasury.CreateProposal(ctx, withToken(w, &api.CreateProposalRequest{
		Title: "Audit", Beneficiary: w.address.Hex(), Amount: etherString(1),
	}))
	if err != nil {
		t.Fatalf("CreateProposal failed: %v", err)
	}
	id := created.Msg.Proposal.Id
	if _, err := env.treasury.PerformVote(ctx, withToken(w, &api.PerformVoteRequest{ProposalId: id})); err != nil {
		t.Fatalf("PerformVote failed: %v", err)
	}

	votes, err := env.treasury.GetProposalVotes(ctx, withToken[api.GetProposalVotesRequest](nil, &api.GetProposalVotesRequest{ProposalId: id}))
	if err != nil {
		t.Fatalf("GetProposalVotes failed: %v", err)
	}
	if len(votes.Msg.Votes) != 1 || votes.Msg.Votes[0].Up {
		t.Errorf("expected one down vote, got %+v", votes.Msg.Votes)
	}

	all, err := env.treasury.ListEvents(ctx, withToken[api.ListEventsRequest](nil, &api.ListEventsRequest{}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all.Msg.Events) != 3 || all.Msg.LastSeq != 3 {
		t.Errorf("expected 3 events, got %d (last %d)", len(all.Msg.Events), all.Msg.LastSeq)
	}

	page, err := env.treasury.ListEvents(ctx, withToken[api.ListEventsRequest](nil, &api.ListEventsRequest{AfterSeq: 1, ProposalId: &id}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(page.Msg.Events) != 2 || page.Msg.Events[0].Kind != string(models.KindProposal) {
		t.Errorf("unexpected filtered events: %+v", page.Msg.Events)
	}
}

func TestLoginRejectsForeignSignature(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	owner, _ := crypto.GenerateKey()
	intruder, _ := crypto.GenerateKey()
	addr := crypto.PubkeyToAddress(owner.PublicKey)

	challenge, err := env.auth.RequestChallenge(ctx, connect.NewRequest(&api.RequestChallengeRequest{Address: addr.Hex()}))
	if err != nil {
		t.Fatalf("RequestChallenge failed: %v", err)
	}
	sig, _ := auth.SignMessage(intruder, challenge.Msg.Message)

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Address: addr.Hex(), Signature: hexutil.Encode(sig)}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected Unauthenticated, got %v", err)
	}

	_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Address: addr.Hex(), Signature: "0xzz"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for malformed signature, got %v", err)
	}
}

func TestRejectionLogCarriesRequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := setupTestServerWithLogger(t, logger)
	ctx := context.Background()
	w := env.login(t)

	req := withToken(w, &api.ContributeRequest{Amount: "0"})
	req.Header().Set(middleware.RequestIDHeader, "req-42")
	_, err := env.treasury.Contribute(ctx, req)
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}

	found := false
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		if rec["msg"] != "Operation rejected" {
			continue
		}
		found = true
		if rec["request_id"] != "req-42" {
			t.Errorf("expected request_id req-42, got %v", rec["request_id"])
		}
		if rec["reason"] != "invalid_amount" {
			t.Errorf("expected reason invalid_amount, got %v", rec["reason"])
		}
	}
	if !found {
		t.Errorf("no rejection logged: %s", logs.String())
	}
}
