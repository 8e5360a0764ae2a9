// Package client is a Go client for the treasury service. It signs in with a
// wallet key the way the browser frontend does and converts amounts at the
// boundary.
package client

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/mmynk/daotreasury/internal/auth"
	"github.com/mmynk/daotreasury/internal/units"
	"github.com/mmynk/daotreasury/pkg/api"
	"github.com/mmynk/daotreasury/pkg/api/apiconnect"
)

// ErrNoKey is returned by Login when the client was built without a key.
var ErrNoKey = errors.New("no private key configured")

// Client calls the treasury and auth services.
type Client struct {
	treasury apiconnect.TreasuryServiceClient
	auth     apiconnect.AuthServiceClient
	logger   *slog.Logger

	key     *ecdsa.PrivateKey
	address common.Address

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient connect.HTTPClient
	key        *ecdsa.PrivateKey
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used for every call.
func WithHTTPClient(c connect.HTTPClient) Option {
	return func(o *options) { o.httpClient = c }
}

// WithPrivateKey sets the wallet key used by Login.
func WithPrivateKey(key *ecdsa.PrivateKey) Option {
	return func(o *options) { o.key = key }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	o := options{
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{logger: o.logger, key: o.key}
	if o.key != nil {
		c.address = crypto.PubkeyToAddress(o.key.PublicKey)
	}
	interceptors := connect.WithInterceptors(c.bearer())
	c.treasury = apiconnect.NewTreasuryServiceClient(o.httpClient, baseURL, interceptors)
	c.auth = apiconnect.NewAuthServiceClient(o.httpClient, baseURL, interceptors)
	return c
}

// bearer attaches the session token to outgoing requests once logged in.
func (c *Client) bearer() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token := c.Token(); token != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// Address is the wallet address of the configured key.
func (c *Client) Address() common.Address {
	return c.address
}

// Token returns the current session token, empty before Login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken reuses a token obtained earlier.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login requests a challenge, signs it with the configured key and stores
// the returned session token.
func (c *Client) Login(ctx context.Context) error {
	if c.key == nil {
		return ErrNoKey
	}
	challenge, err := c.auth.RequestChallenge(ctx, connect.NewRequest(&api.RequestChallengeRequest{
		Address: c.address.Hex(),
	}))
	if err != nil {
		return fmt.Errorf("request challenge: %w", err)
	}
	sig, err := auth.SignMessage(c.key, challenge.Msg.Message)
	if err != nil {
		return err
	}
	resp, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Address:   c.address.Hex(),
		Signature: hexutil.Encode(sig),
	}))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.SetToken(resp.Msg.Token)
	c.logger.Debug("logged in", "address", resp.Msg.Address)
	return nil
}

// Contribute sends amount base units to the treasury.
func (c *Client) Contribute(ctx context.Context, amount *uint256.Int) (*api.ContributeResponse, error) {
	resp, err := c.treasury.Contribute(ctx, connect.NewRequest(&api.ContributeRequest{
		Amount: amount.Dec(),
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// ProposalInput is a funding request to submit.
type ProposalInput struct {
	Title       string
	Description string
	Beneficiary common.Address
	Amount      *uint256.Int
}

func (c *Client) CreateProposal(ctx context.Context, in ProposalInput) (*api.Proposal, error) {
	amount := "0"
	if in.Amount != nil {
		amount = in.Amount.Dec()
	}
	resp, err := c.treasury.CreateProposal(ctx, connect.NewRequest(&api.CreateProposalRequest{
		Title:       in.Title,
		Description: in.Description,
		Beneficiary: in.Beneficiary.Hex(),
		Amount:      amount,
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Proposal, nil
}

func (c *Client) Proposal(ctx context.Context, id uint64) (*api.Proposal, error) {
	resp, err := c.treasury.GetProposal(ctx, connect.NewRequest(&api.GetProposalRequest{Id: id}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Proposal, nil
}

func (c *Client) Proposals(ctx context.Context) ([]*api.Proposal, error) {
	resp, err := c.treasury.ListProposals(ctx, connect.NewRequest(&api.ListProposalsRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Proposals, nil
}

// Vote casts an up (true) or down (false) vote and returns the VoteAction event.
func (c *Client) Vote(ctx context.Context, proposalID uint64, up bool) (*api.Event, error) {
	resp, err := c.treasury.PerformVote(ctx, connect.NewRequest(&api.PerformVoteRequest{
		ProposalId: proposalID,
		Up:         up,
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Event, nil
}

func (c *Client) Votes(ctx context.Context, proposalID uint64) ([]*api.Vote, error) {
	resp, err := c.treasury.GetProposalVotes(ctx, connect.NewRequest(&api.GetProposalVotesRequest{
		ProposalId: proposalID,
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Votes, nil
}

// Pay releases a proposal's amount to its beneficiary.
func (c *Client) Pay(ctx context.Context, proposalID uint64) (*api.PayBeneficiaryResponse, error) {
	resp, err := c.treasury.PayBeneficiary(ctx, connect.NewRequest(&api.PayBeneficiaryRequest{
		ProposalId: proposalID,
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Status is the caller's standing in the DAO.
type Status struct {
	Address     common.Address
	Contributor bool
	Stakeholder bool
	Contributed *uint256.Int
}

// Status reports the logged-in caller's role and contribution.
func (c *Client) Status(ctx context.Context) (Status, error) {
	who, err := c.auth.WhoAmI(ctx, connect.NewRequest(&api.WhoAmIRequest{}))
	if err != nil {
		return Status{}, err
	}
	bal, err := c.treasury.GetContributorBalance(ctx, connect.NewRequest(&api.GetContributorBalanceRequest{}))
	if err != nil {
		return Status{}, err
	}
	contributed, err := units.ParseBaseUnits(bal.Msg.Balance)
	if err != nil {
		return Status{}, fmt.Errorf("contributor balance %q: %w", bal.Msg.Balance, err)
	}
	return Status{
		Address:     common.HexToAddress(who.Msg.Address),
		Contributor: who.Msg.Contributor,
		Stakeholder: who.Msg.Stakeholder,
		Contributed: contributed,
	}, nil
}

func (c *Client) IsStakeholder(ctx context.Context) (bool, error) {
	resp, err := c.treasury.GetStakeholderStatus(ctx, connect.NewRequest(&api.GetStakeholderStatusRequest{}))
	if err != nil {
		return false, err
	}
	return resp.Msg.Stakeholder, nil
}

func (c *Client) IsContributor(ctx context.Context) (bool, error) {
	resp, err := c.treasury.IsContributor(ctx, connect.NewRequest(&api.IsContributorRequest{}))
	if err != nil {
		return false, err
	}
	return resp.Msg.Contributor, nil
}

// StakeholderBalance is the caller's contribution. The server rejects
// callers below the stakeholder threshold.
func (c *Client) StakeholderBalance(ctx context.Context) (*uint256.Int, error) {
	resp, err := c.treasury.GetStakeholderBalance(ctx, connect.NewRequest(&api.GetStakeholderBalanceRequest{}))
	if err != nil {
		return nil, err
	}
	return units.ParseBaseUnits(resp.Msg.Balance)
}

func (c *Client) ContributorBalance(ctx context.Context) (*uint256.Int, error) {
	resp, err := c.treasury.GetContributorBalance(ctx, connect.NewRequest(&api.GetContributorBalanceRequest{}))
	if err != nil {
		return nil, err
	}
	return units.ParseBaseUnits(resp.Msg.Balance)
}

func (c *Client) TotalBalance(ctx context.Context) (*uint256.Int, error) {
	resp, err := c.treasury.GetTotalBalance(ctx, connect.NewRequest(&api.GetTotalBalanceRequest{}))
	if err != nil {
		return nil, err
	}
	return units.ParseBaseUnits(resp.Msg.Balance)
}

func (c *Client) Contributors(ctx context.Context) (*api.ListContributorsResponse, error) {
	resp, err := c.treasury.ListContributors(ctx, connect.NewRequest(&api.ListContributorsRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Events pages through the journal. proposalID is optional.
func (c *Client) Events(ctx context.Context, afterSeq uint64, limit int, proposalID *uint64) (*api.ListEventsResponse, error) {
	resp, err := c.treasury.ListEvents(ctx, connect.NewRequest(&api.ListEventsRequest{
		AfterSeq:   afterSeq,
		Limit:      limit,
		ProposalId: proposalID,
	}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) Deployment(ctx context.Context) (*api.Deployment, error) {
	resp, err := c.treasury.GetDeployment(ctx, connect.NewRequest(&api.GetDeploymentRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Deployment, nil
}
