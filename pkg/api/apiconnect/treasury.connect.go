package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/daotreasury/pkg/api"
)

// TreasuryServiceName is the fully-qualified name of the TreasuryService.
const TreasuryServiceName = "treasury.v1.TreasuryService"

// Procedure paths, one per RPC.
const (
	TreasuryServiceContributeProcedure            = "/treasury.v1.TreasuryService/Contribute"
	TreasuryServiceCreateProposalProcedure        = "/treasury.v1.TreasuryService/CreateProposal"
	TreasuryServiceGetProposalProcedure           = "/treasury.v1.TreasuryService/GetProposal"
	TreasuryServiceListProposalsProcedure         = "/treasury.v1.TreasuryService/ListProposals"
	TreasuryServicePerformVoteProcedure           = "/treasury.v1.TreasuryService/PerformVote"
	TreasuryServiceGetProposalVotesProcedure      = "/treasury.v1.TreasuryService/GetProposalVotes"
	TreasuryServicePayBeneficiaryProcedure        = "/treasury.v1.TreasuryService/PayBeneficiary"
	TreasuryServiceGetStakeholderStatusProcedure  = "/treasury.v1.TreasuryService/GetStakeholderStatus"
	TreasuryServiceIsContributorProcedure         = "/treasury.v1.TreasuryService/IsContributor"
	TreasuryServiceGetStakeholderBalanceProcedure = "/treasury.v1.TreasuryService/GetStakeholderBalance"
	TreasuryServiceGetContributorBalanceProcedure = "/treasury.v1.TreasuryService/GetContributorBalance"
	TreasuryServiceGetTotalBalanceProcedure       = "/treasury.v1.TreasuryService/GetTotalBalance"
	TreasuryServiceGetDeploymentProcedure         = "/treasury.v1.TreasuryService/GetDeployment"
	TreasuryServiceListContributorsProcedure      = "/treasury.v1.TreasuryService/ListContributors"
	TreasuryServiceListEventsProcedure            = "/treasury.v1.TreasuryService/ListEvents"
)

// TreasuryServiceClient is a client for the treasury.v1.TreasuryService service.
type TreasuryServiceClient interface {
	Contribute(context.Context, *connect.Request[api.ContributeRequest]) (*connect.Response[api.ContributeResponse], error)
	CreateProposal(context.Context, *connect.Request[api.CreateProposalRequest]) (*connect.Response[api.CreateProposalResponse], error)
	GetProposal(context.Context, *connect.Request[api.GetProposalRequest]) (*connect.Response[api.GetProposalResponse], error)
	ListProposals(context.Context, *connect.Request[api.ListProposalsRequest]) (*connect.Response[api.ListProposalsResponse], error)
	PerformVote(context.Context, *connect.Request[api.PerformVoteRequest]) (*connect.Response[api.PerformVoteResponse], error)
	GetProposalVotes(context.Context, *connect.Request[api.GetProposalVotesRequest]) (*connect.Response[api.GetProposalVotesResponse], error)
	PayBeneficiary(context.Context, *connect.Request[api.PayBeneficiaryRequest]) (*connect.Response[api.PayBeneficiaryResponse], error)
	GetStakeholderStatus(context.Context, *connect.Request[api.GetStakeholderStatusRequest]) (*connect.Response[api.GetStakeholderStatusResponse], error)
	IsContributor(context.Context, *connect.Request[api.IsContributorRequest]) (*connect.Response[api.IsContributorResponse], error)
	GetStakeholderBalance(context.Context, *connect.Request[api.GetStakeholderBalanceRequest]) (*connect.Response[api.GetStakeholderBalanceResponse], error)
	GetContributorBalance(context.Context, *connect.Request[api.GetContributorBalanceRequest]) (*connect.Response[api.GetContributorBalanceResponse], error)
	GetTotalBalance(context.Context, *connect.Request[api.GetTotalBalanceRequest]) (*connect.Response[api.GetTotalBalanceResponse], error)
	GetDeployment(context.Context, *connect.Request[api.GetDeploymentRequest]) (*connect.Response[api.GetDeploymentResponse], error)
	ListContributors(context.Context, *connect.Request[api.ListContributorsRequest]) (*connect.Response[api.ListContributorsResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
}

// NewTreasuryServiceClient constructs a client for the treasury.v1.TreasuryService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewTreasuryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TreasuryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &treasuryServiceClient{
		contribute:            connect.NewClient[api.ContributeRequest, api.ContributeResponse](httpClient, baseURL+TreasuryServiceContributeProcedure, opts...),
		createProposal:        connect.NewClient[api.CreateProposalRequest, api.CreateProposalResponse](httpClient, baseURL+TreasuryServiceCreateProposalProcedure, opts...),
		getProposal:           connect.NewClient[api.GetProposalRequest, api.GetProposalResponse](httpClient, baseURL+TreasuryServiceGetProposalProcedure, opts...),
		listProposals:         connect.NewClient[api.ListProposalsRequest, api.ListProposalsResponse](httpClient, baseURL+TreasuryServiceListProposalsProcedure, opts...),
		performVote:           connect.NewClient[api.PerformVoteRequest, api.PerformVoteResponse](httpClient, baseURL+TreasuryServicePerformVoteProcedure, opts...),
		getProposalVotes:      connect.NewClient[api.GetProposalVotesRequest, api.GetProposalVotesResponse](httpClient, baseURL+TreasuryServiceGetProposalVotesProcedure, opts...),
		payBeneficiary:        connect.NewClient[api.PayBeneficiaryRequest, api.PayBeneficiaryResponse](httpClient, baseURL+TreasuryServicePayBeneficiaryProcedure, opts...),
		getStakeholderStatus:  connect.NewClient[api.GetStakeholderStatusRequest, api.GetStakeholderStatusResponse](httpClient, baseURL+TreasuryServiceGetStakeholderStatusProcedure, opts...),
		isContributor:         connect.NewClient[api.IsContributorRequest, api.IsContributorResponse](httpClient, baseURL+TreasuryServiceIsContributorProcedure, opts...),
		getStakeholderBalance: connect.NewClient[api.GetStakeholderBalanceRequest, api.GetStakeholderBalanceResponse](httpClient, baseURL+TreasuryServiceGetStakeholderBalanceProcedure, opts...),
		getContributorBalance: connect.NewClient[api.GetContributorBalanceRequest, api.GetContributorBalanceResponse](httpClient, baseURL+TreasuryServiceGetContributorBalanceProcedure, opts...),
		getTotalBalance:       connect.NewClient[api.GetTotalBalanceRequest, api.GetTotalBalanceResponse](httpClient, baseURL+TreasuryServiceGetTotalBalanceProcedure, opts...),
		getDeployment:         connect.NewClient[api.GetDeploymentRequest, api.GetDeploymentResponse](httpClient, baseURL+TreasuryServiceGetDeploymentProcedure, opts...),
		listContributors:      connect.NewClient[api.ListContributorsRequest, api.ListContributorsResponse](httpClient, baseURL+TreasuryServiceListContributorsProcedure, opts...),
		listEvents:            connect.NewClient[api.ListEventsRequest, api.ListEventsResponse](httpClient, baseURL+TreasuryServiceListEventsProcedure, opts...),
	}
}

type treasuryServiceClient struct {
	contribute            *connect.Client[api.ContributeRequest, api.ContributeResponse]
	createProposal        *connect.Client[api.CreateProposalRequest, api.CreateProposalResponse]
	getProposal           *connect.Client[api.GetProposalRequest, api.GetProposalResponse]
	listProposals         *connect.Client[api.ListProposalsRequest, api.ListProposalsResponse]
	performVote           *connect.Client[api.PerformVoteRequest, api.PerformVoteResponse]
	getProposalVotes      *connect.Client[api.GetProposalVotesRequest, api.GetProposalVotesResponse]
	payBeneficiary        *connect.Client[api.PayBeneficiaryRequest, api.PayBeneficiaryResponse]
	getStakeholderStatus  *connect.Client[api.GetStakeholderStatusRequest, api.GetStakeholderStatusResponse]
	isContributor         *connect.Client[api.IsContributorRequest, api.IsContributorResponse]
	getStakeholderBalance *connect.Client[api.GetStakeholderBalanceRequest, api.GetStakeholderBalanceResponse]
	getContributorBalance *connect.Client[api.GetContributorBalanceRequest, api.GetContributorBalanceResponse]
	getTotalBalance       *connect.Client[api.GetTotalBalanceRequest, api.GetTotalBalanceResponse]
	getDeployment         *connect.Client[api.GetDeploymentRequest, api.GetDeploymentResponse]
	listContributors      *connect.Client[api.ListContributorsRequest, api.ListContributorsResponse]
	listEvents            *connect.Client[api.ListEventsRequest, api.ListEventsResponse]
}

func (c *treasuryServiceClient) Contribute(ctx context.Context, req *connect.Request[api.ContributeRequest]) (*connect.Response[api.ContributeResponse], error) {
	return c.contribute.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) CreateProposal(ctx context.Context, req *connect.Request[api.CreateProposalRequest]) (*connect.Response[api.CreateProposalResponse], error) {
	return c.createProposal.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) GetProposal(ctx context.Context, req *connect.Request[api.GetProposalRequest]) (*connect.Response[api.GetProposalResponse], error) {
	return c.getProposal.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) ListProposals(ctx context.Context, req *connect.Request[api.ListProposalsRequest]) (*connect.Response[api.ListProposalsResponse], error) {
	return c.listProposals.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) PerformVote(ctx context.Context, req *connect.Request[api.PerformVoteRequest]) (*connect.Response[api.PerformVoteResponse], error) {
	return c.performVote.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) GetProposalVotes(ctx context.Context, req *connect.Request[api.GetProposalVotesRequest]) (*connect.Response[api.GetProposalVotesResponse], error) {
	return c.getProposalVotes.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) PayBeneficiary(ctx context.Context, req *connect.Request[api.PayBeneficiaryRequest]) (*connect.Response[api.PayBeneficiaryResponse], error) {
	return c.payBeneficiary.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) GetStakeholderStatus(ctx context.Context, req *connect.Request[api.GetStakeholderStatusRequest]) (*connect.Response[api.GetStakeholderStatusResponse], error) {
	return c.getStakeholderStatus.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) IsContributor(ctx context.Context, req *connect.Request[api.IsContributorRequest]) (*connect.Response[api.IsContributorResponse], error) {
	return c.isContributor.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) GetStakeholderBalance(ctx context.Context, req *connect.Request[api.GetStakeholderBalanceRequest]) (*connect.Response[api.GetStakeholderBalanceResponse], error) {
	return c.getStakeholderBalance.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) GetContributorBalance(ctx context.Context, req *connect.Request[api.GetContributorBalanceRequest]) (*connect.Response[api.GetContributorBalanceResponse], error) {
	return c.getContributorBalance.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) GetTotalBalance(ctx context.Context, req *connect.Request[api.GetTotalBalanceRequest]) (*connect.Response[api.GetTotalBalanceResponse], error) {
	return c.getTotalBalance.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) GetDeployment(ctx context.Context, req *connect.Request[api.GetDeploymentRequest]) (*connect.Response[api.GetDeploymentResponse], error) {
	return c.getDeployment.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) ListContributors(ctx context.Context, req *connect.Request[api.ListContributorsRequest]) (*connect.Response[api.ListContributorsResponse], error) {
	return c.listContributors.CallUnary(ctx, req)
}

func (c *treasuryServiceClient) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

// TreasuryServiceHandler is implemented by the server side of treasury.v1.TreasuryService.
type TreasuryServiceHandler interface {
	Contribute(context.Context, *connect.Request[api.ContributeRequest]) (*connect.Response[api.ContributeResponse], error)
	CreateProposal(context.Context, *connect.Request[api.CreateProposalRequest]) (*connect.Response[api.CreateProposalResponse], error)
	GetProposal(context.Context, *connect.Request[api.GetProposalRequest]) (*connect.Response[api.GetProposalResponse], error)
	ListProposals(context.Context, *connect.Request[api.ListProposalsRequest]) (*connect.Response[api.ListProposalsResponse], error)
	PerformVote(context.Context, *connect.Request[api.PerformVoteRequest]) (*connect.Response[api.PerformVoteResponse], error)
	GetProposalVotes(context.Context, *connect.Request[api.GetProposalVotesRequest]) (*connect.Response[api.GetProposalVotesResponse], error)
	PayBeneficiary(context.Context, *connect.Request[api.PayBeneficiaryRequest]) (*connect.Response[api.PayBeneficiaryResponse], error)
	GetStakeholderStatus(context.Context, *connect.Request[api.GetStakeholderStatusRequest]) (*connect.Response[api.GetStakeholderStatusResponse], error)
	IsContributor(context.Context, *connect.Request[api.IsContributorRequest]) (*connect.Response[api.IsContributorResponse], error)
	GetStakeholderBalance(context.Context, *connect.Request[api.GetStakeholderBalanceRequest]) (*connect.Response[api.GetStakeholderBalanceResponse], error)
	GetContributorBalance(context.Context, *connect.Request[api.GetContributorBalanceRequest]) (*connect.Response[api.GetContributorBalanceResponse], error)
	GetTotalBalance(context.Context, *connect.Request[api.GetTotalBalanceRequest]) (*connect.Response[api.GetTotalBalanceResponse], error)
	GetDeployment(context.Context, *connect.Request[api.GetDeploymentRequest]) (*connect.Response[api.GetDeploymentResponse], error)
	ListContributors(context.Context, *connect.Request[api.ListContributorsRequest]) (*connect.Response[api.ListContributorsResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
}

// NewTreasuryServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTreasuryServiceHandler(svc TreasuryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	contributeHandler := connect.NewUnaryHandler(TreasuryServiceContributeProcedure, svc.Contribute, opts...)
	createProposalHandler := connect.NewUnaryHandler(TreasuryServiceCreateProposalProcedure, svc.CreateProposal, opts...)
	getProposalHandler := connect.NewUnaryHandler(TreasuryServiceGetProposalProcedure, svc.GetProposal, opts...)
	listProposalsHandler := connect.NewUnaryHandler(TreasuryServiceListProposalsProcedure, svc.ListProposals, opts...)
	performVoteHandler := connect.NewUnaryHandler(TreasuryServicePerformVoteProcedure, svc.PerformVote, opts...)
	getProposalVotesHandler := connect.NewUnaryHandler(TreasuryServiceGetProposalVotesProcedure, svc.GetProposalVotes, opts...)
	payBeneficiaryHandler := connect.NewUnaryHandler(TreasuryServicePayBeneficiaryProcedure, svc.PayBeneficiary, opts...)
	getStakeholderStatusHandler := connect.NewUnaryHandler(TreasuryServiceGetStakeholderStatusProcedure, svc.GetStakeholderStatus, opts...)
	isContributorHandler := connect.NewUnaryHandler(TreasuryServiceIsContributorProcedure, svc.IsContributor, opts...)
	getStakeholderBalanceHandler := connect.NewUnaryHandler(TreasuryServiceGetStakeholderBalanceProcedure, svc.GetStakeholderBalance, opts...)
	getContributorBalanceHandler := connect.NewUnaryHandler(TreasuryServiceGetContributorBalanceProcedure, svc.GetContributorBalance, opts...)
	getTotalBalanceHandler := connect.NewUnaryHandler(TreasuryServiceGetTotalBalanceProcedure, svc.GetTotalBalance, opts...)
	getDeploymentHandler := connect.NewUnaryHandler(TreasuryServiceGetDeploymentProcedure, svc.GetDeployment, opts...)
	listContributorsHandler := connect.NewUnaryHandler(TreasuryServiceListContributorsProcedure, svc.ListContributors, opts...)
	listEventsHandler := connect.NewUnaryHandler(TreasuryServiceListEventsProcedure, svc.ListEvents, opts...)
	return "/treasury.v1.TreasuryService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TreasuryServiceContributeProcedure:
			contributeHandler.ServeHTTP(w, r)
		case TreasuryServiceCreateProposalProcedure:
			createProposalHandler.ServeHTTP(w, r)
		case TreasuryServiceGetProposalProcedure:
			getProposalHandler.ServeHTTP(w, r)
		case TreasuryServiceListProposalsProcedure:
			listProposalsHandler.ServeHTTP(w, r)
		case TreasuryServicePerformVoteProcedure:
			performVoteHandler.ServeHTTP(w, r)
		case TreasuryServiceGetProposalVotesProcedure:
			getProposalVotesHandler.ServeHTTP(w, r)
		case TreasuryServicePayBeneficiaryProcedure:
			payBeneficiaryHandler.ServeHTTP(w, r)
		case TreasuryServiceGetStakeholderStatusProcedure:
			getStakeholderStatusHandler.ServeHTTP(w, r)
		case TreasuryServiceIsContributorProcedure:
			isContributorHandler.ServeHTTP(w, r)
		case TreasuryServiceGetStakeholderBalanceProcedure:
			getStakeholderBalanceHandler.ServeHTTP(w, r)
		case TreasuryServiceGetContributorBalanceProcedure:
			getContributorBalanceHandler.ServeHTTP(w, r)
		case TreasuryServiceGetTotalBalanceProcedure:
			getTotalBalanceHandler.ServeHTTP(w, r)
		case TreasuryServiceGetDeploymentProcedure:
			getDeploymentHandler.ServeHTTP(w, r)
		case TreasuryServiceListContributorsProcedure:
			listContributorsHandler.ServeHTTP(w, r)
		case TreasuryServiceListEventsProcedure:
			listEventsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedTreasuryServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTreasuryServiceHandler struct{}

func (UnimplementedTreasuryServiceHandler) Contribute(context.Context, *connect.Request[api.ContributeRequest]) (*connect.Response[api.ContributeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.Contribute"))
}

func (UnimplementedTreasuryServiceHandler) CreateProposal(context.Context, *connect.Request[api.CreateProposalRequest]) (*connect.Response[api.CreateProposalResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.CreateProposal"))
}

func (UnimplementedTreasuryServiceHandler) GetProposal(context.Context, *connect.Request[api.GetProposalRequest]) (*connect.Response[api.GetProposalResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.GetProposal"))
}

func (UnimplementedTreasuryServiceHandler) ListProposals(context.Context, *connect.Request[api.ListProposalsRequest]) (*connect.Response[api.ListProposalsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.ListProposals"))
}

func (UnimplementedTreasuryServiceHandler) PerformVote(context.Context, *connect.Request[api.PerformVoteRequest]) (*connect.Response[api.PerformVoteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.PerformVote"))
}

func (UnimplementedTreasuryServiceHandler) GetProposalVotes(context.Context, *connect.Request[api.GetProposalVotesRequest]) (*connect.Response[api.GetProposalVotesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.GetProposalVotes"))
}

func (UnimplementedTreasuryServiceHandler) PayBeneficiary(context.Context, *connect.Request[api.PayBeneficiaryRequest]) (*connect.Response[api.PayBeneficiaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.PayBeneficiary"))
}

func (UnimplementedTreasuryServiceHandler) GetStakeholderStatus(context.Context, *connect.Request[api.GetStakeholderStatusRequest]) (*connect.Response[api.GetStakeholderStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.GetStakeholderStatus"))
}

func (UnimplementedTreasuryServiceHandler) IsContributor(context.Context, *connect.Request[api.IsContributorRequest]) (*connect.Response[api.IsContributorResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.IsContributor"))
}

func (UnimplementedTreasuryServiceHandler) GetStakeholderBalance(context.Context, *connect.Request[api.GetStakeholderBalanceRequest]) (*connect.Response[api.GetStakeholderBalanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.GetStakeholderBalance"))
}

func (UnimplementedTreasuryServiceHandler) GetContributorBalance(context.Context, *connect.Request[api.GetContributorBalanceRequest]) (*connect.Response[api.GetContributorBalanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.GetContributorBalance"))
}

func (UnimplementedTreasuryServiceHandler) GetTotalBalance(context.Context, *connect.Request[api.GetTotalBalanceRequest]) (*connect.Response[api.GetTotalBalanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.GetTotalBalance"))
}

func (UnimplementedTreasuryServiceHandler) GetDeployment(context.Context, *connect.Request[api.GetDeploymentRequest]) (*connect.Response[api.GetDeploymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.GetDeployment"))
}

func (UnimplementedTreasuryServiceHandler) ListContributors(context.Context, *connect.Request[api.ListContributorsRequest]) (*connect.Response[api.ListContributorsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.ListContributors"))
}

func (UnimplementedTreasuryServiceHandler) ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented("treasury.v1.TreasuryService.ListEvents"))
}
