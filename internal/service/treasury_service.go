package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mmynk/daotreasury/internal/auth"
	"github.com/mmynk/daotreasury/internal/governance"
	"github.com/mmynk/daotreasury/internal/metrics"
	"github.com/mmynk/daotreasury/internal/middleware"
	"github.com/mmynk/daotreasury/internal/units"
	"github.com/mmynk/daotreasury/pkg/api"
	"github.com/mmynk/daotreasury/pkg/api/apiconnect"
)

// PublicTreasuryProcedures can be called without a session token.
var PublicTreasuryProcedures = []string{
	apiconnect.TreasuryServiceGetProposalProcedure,
	apiconnect.TreasuryServiceListProposalsProcedure,
	apiconnect.TreasuryServiceGetProposalVotesProcedure,
	apiconnect.TreasuryServiceGetTotalBalanceProcedure,
	apiconnect.TreasuryServiceGetDeploymentProcedure,
	apiconnect.TreasuryServiceListContributorsProcedure,
	apiconnect.TreasuryServiceListEventsProcedure,
}

// TreasuryService implements the Connect TreasuryService on top of the
// governance engine.
type TreasuryService struct {
	treasury *governance.Treasury
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ apiconnect.TreasuryServiceHandler = (*TreasuryService)(nil)

// NewTreasuryService creates a new TreasuryService.
func NewTreasuryService(treasury *governance.Treasury, m *metrics.Metrics, logger *slog.Logger) *TreasuryService {
	m.SetBalance(treasury.TotalBalance())
	return &TreasuryService{
		treasury: treasury,
		metrics:  m,
		logger:   logger,
	}
}

func callerFrom(ctx context.Context) (common.Address, error) {
	caller, ok := middleware.GetCaller(ctx)
	if !ok {
		return common.Address{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return caller, nil
}

// reject records a refused operation and converts the error for the wire.
func (s *TreasuryService) reject(ctx context.Context, operation string, caller common.Address, err error) error {
	reason := governance.Reason(err)
	if reason == "internal" && (isUnitsError(err) || errors.Is(err, errInvalidAddress)) {
		reason = "invalid_input"
	}
	s.metrics.Reject(operation, reason)
	if reason == "internal" {
		s.logger.Error("Operation failed",
			"operation", operation,
			"caller", caller.Hex(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
	} else {
		s.logger.Debug("Operation rejected",
			"operation", operation,
			"caller", caller.Hex(),
			"request_id", middleware.GetRequestID(ctx),
			"reason", reason,
		)
	}
	return toConnectError(err)
}

// Contribute adds funds from the caller.
func (s *TreasuryService) Contribute(ctx context.Context, req *connect.Request[api.ContributeRequest]) (*connect.Response[api.ContributeResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := units.ParseBaseUnits(req.Msg.Amount)
	if err != nil {
		return nil, s.reject(ctx, "contribute", caller, err)
	}

	r, err := s.treasury.Contribute(ctx, caller, amount)
	if err != nil {
		return nil, s.reject(ctx, "contribute", caller, err)
	}
	s.metrics.Contributions.Inc()
	s.metrics.SetBalance(r.Balance)

	return connect.NewResponse(&api.ContributeResponse{
		Event:       toAPIEvent(r.Event),
		Contributed: dec(r.Contributed),
		Stakeholder: r.Stakeholder,
	}), nil
}

// CreateProposal raises a proposal on behalf of a stakeholder.
func (s *TreasuryService) CreateProposal(ctx context.Context, req *connect.Request[api.CreateProposalRequest]) (*connect.Response[api.CreateProposalResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	beneficiary, err := parseAddress(req.Msg.Beneficiary)
	if err != nil {
		return nil, s.reject(ctx, "propose", caller, err)
	}
	amount, err := units.ParseBaseUnits(req.Msg.Amount)
	if err != nil {
		return nil, s.reject(ctx, "propose", caller, err)
	}

	p, err := s.treasury.CreateProposal(ctx, caller, governance.ProposalInput{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
		Beneficiary: beneficiary,
		Amount:      amount,
	})
	if err != nil {
		return nil, s.reject(ctx, "propose", caller, err)
	}
	s.metrics.Proposals.Inc()

	return connect.NewResponse(&api.CreateProposalResponse{Proposal: toAPIProposal(p)}), nil
}

// GetProposal returns one proposal.
func (s *TreasuryService) GetProposal(ctx context.Context, req *connect.Request[api.GetProposalRequest]) (*connect.Response[api.GetProposalResponse], error) {
	p, err := s.treasury.Proposal(req.Msg.Id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetProposalResponse{Proposal: toAPIProposal(p)}), nil
}

// ListProposals returns all proposals in creation order.
func (s *TreasuryService) ListProposals(ctx context.Context, req *connect.Request[api.ListProposalsRequest]) (*connect.Response[api.ListProposalsResponse], error) {
	proposals := s.treasury.Proposals()
	out := make([]*api.Proposal, len(proposals))
	for i, p := range proposals {
		out[i] = toAPIProposal(p)
	}
	return connect.NewResponse(&api.ListProposalsResponse{Proposals: out}), nil
}

// PerformVote records the caller's vote.
func (s *TreasuryService) PerformVote(ctx context.Context, req *connect.Request[api.PerformVoteRequest]) (*connect.Response[api.PerformVoteResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.treasury.PerformVote(ctx, caller, req.Msg.ProposalId, req.Msg.Up)
	if err != nil {
		return nil, s.reject(ctx, "vote", caller, err)
	}
	s.metrics.ObserveVote(req.Msg.Up)

	return connect.NewResponse(&api.PerformVoteResponse{Event: toAPIEvent(e)}), nil
}

// GetProposalVotes lists the votes cast on a proposal.
func (s *TreasuryService) GetProposalVotes(ctx context.Context, req *connect.Request[api.GetProposalVotesRequest]) (*connect.Response[api.GetProposalVotesResponse], error) {
	votes, err := s.treasury.ProposalVotes(req.Msg.ProposalId)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Vote, len(votes))
	for i, v := range votes {
		out[i] = toAPIVote(v)
	}
	return connect.NewResponse(&api.GetProposalVotesResponse{Votes: out}), nil
}

// PayBeneficiary pays out an approved proposal.
func (s *TreasuryService) PayBeneficiary(ctx context.Context, req *connect.Request[api.PayBeneficiaryRequest]) (*connect.Response[api.PayBeneficiaryResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.treasury.PayBeneficiary(ctx, caller, req.Msg.ProposalId)
	if err != nil {
		return nil, s.reject(ctx, "pay", caller, err)
	}
	balance := s.treasury.TotalBalance()
	s.metrics.Payouts.Inc()
	s.metrics.SetBalance(balance)

	return connect.NewResponse(&api.PayBeneficiaryResponse{
		Event:        toAPIEvent(e),
		TotalBalance: dec(balance),
	}), nil
}

// GetStakeholderStatus reports whether the caller is a stakeholder.
func (s *TreasuryService) GetStakeholderStatus(ctx context.Context, req *connect.Request[api.GetStakeholderStatusRequest]) (*connect.Response[api.GetStakeholderStatusResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetStakeholderStatusResponse{
		Stakeholder: s.treasury.StakeholderStatus(caller),
	}), nil
}

// IsContributor reports whether the caller has contributed.
func (s *TreasuryService) IsContributor(ctx context.Context, req *connect.Request[api.IsContributorRequest]) (*connect.Response[api.IsContributorResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.IsContributorResponse{
		Contributor: s.treasury.IsContributor(caller),
	}), nil
}

// GetStakeholderBalance returns the caller's contribution if they are a stakeholder.
func (s *TreasuryService) GetStakeholderBalance(ctx context.Context, req *connect.Request[api.GetStakeholderBalanceRequest]) (*connect.Response[api.GetStakeholderBalanceResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := s.treasury.StakeholderBalance(caller)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetStakeholderBalanceResponse{Balance: dec(balance)}), nil
}

// GetContributorBalance returns the caller's contribution, zero if none.
func (s *TreasuryService) GetContributorBalance(ctx context.Context, req *connect.Request[api.GetContributorBalanceRequest]) (*connect.Response[api.GetContributorBalanceResponse], error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetContributorBalanceResponse{
		Balance: dec(s.treasury.ContributorBalance(caller)),
	}), nil
}

// GetTotalBalance returns the treasury balance.
func (s *TreasuryService) GetTotalBalance(ctx context.Context, req *connect.Request[api.GetTotalBalanceRequest]) (*connect.Response[api.GetTotalBalanceResponse], error) {
	return connect.NewResponse(&api.GetTotalBalanceResponse{
		Balance: dec(s.treasury.TotalBalance()),
	}), nil
}

// GetDeployment returns the deployer and the treasury address.
func (s *TreasuryService) GetDeployment(ctx context.Context, req *connect.Request[api.GetDeploymentRequest]) (*connect.Response[api.GetDeploymentResponse], error) {
	return connect.NewResponse(&api.GetDeploymentResponse{
		Deployment: toAPIDeployment(s.treasury.Deployment()),
	}), nil
}

// ListContributors returns every contributor with its standing.
func (s *TreasuryService) ListContributors(ctx context.Context, req *connect.Request[api.ListContributorsRequest]) (*connect.Response[api.ListContributorsResponse], error) {
	roster := s.treasury.Roster()

	out := make([]*api.Contributor, len(roster.Contributors))
	for i, c := range roster.Contributors {
		out[i] = toAPIContributor(c)
	}
	return connect.NewResponse(&api.ListContributorsResponse{
		Contributors: out,
		Total:        dec(roster.Summary.Total),
		Stakeholders: roster.Summary.Stakeholders,
	}), nil
}

// maxEventPage caps a single ListEvents response.
const maxEventPage = 500

// ListEvents pages through the journal.
func (s *TreasuryService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	limit := req.Msg.Limit
	if limit <= 0 || limit > maxEventPage {
		limit = maxEventPage
	}

	events := s.treasury.Events(governance.EventFilter{
		AfterSeq:   req.Msg.AfterSeq,
		Limit:      limit,
		ProposalID: req.Msg.ProposalId,
	})
	out := make([]*api.Event, len(events))
	for i, e := range events {
		out[i] = toAPIEvent(e)
	}
	return connect.NewResponse(&api.ListEventsResponse{
		Events:  out,
		LastSeq: s.treasury.LastSeq(),
	}), nil
}
