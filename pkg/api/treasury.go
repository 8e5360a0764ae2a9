package api

// Proposal is a funding request as seen over the wire.
type Proposal struct {
	Id          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Creator     string `json:"creator"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	UpVotes     uint64 `json:"upVotes"`
	DownVotes   uint64 `json:"downVotes"`
	Paid        bool   `json:"paid"`
	CreatedAt   int64  `json:"createdAt"`
	Deadline    int64  `json:"deadline"`
	PaidAt      int64  `json:"paidAt,omitempty"`
	Executor    string `json:"executor,omitempty"`
}

type Vote struct {
	ProposalId uint64 `json:"proposalId"`
	Voter      string `json:"voter"`
	Up         bool   `json:"up"`
	CastAt     int64  `json:"castAt"`
}

type Contributor struct {
	Address            string `json:"address"`
	Amount             string `json:"amount"`
	Stakeholder        bool   `json:"stakeholder"`
	FirstContributedAt int64  `json:"firstContributedAt"`
}

// Event is one journal entry. Which fields are set depends on Kind.
type Event struct {
	Seq         uint64 `json:"seq"`
	Kind        string `json:"kind"`
	Actor       string `json:"actor"`
	Timestamp   int64  `json:"timestamp"`
	Label       string `json:"label,omitempty"`
	ProposalId  uint64 `json:"proposalId"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Beneficiary string `json:"beneficiary,omitempty"`
	Amount      string `json:"amount"`
	Deadline    int64  `json:"deadline,omitempty"`
	UpVotes     uint64 `json:"upVotes,omitempty"`
	DownVotes   uint64 `json:"downVotes,omitempty"`
	Choice      bool   `json:"choice,omitempty"`
}

type Deployment struct {
	Deployer  string `json:"deployer"`
	Address   string `json:"address"`
	CreatedAt int64  `json:"createdAt"`
}

type ContributeRequest struct {
	Amount string `json:"amount"`
}

type ContributeResponse struct {
	Event       *Event `json:"event"`
	Contributed string `json:"contributed"`
	Stakeholder bool   `json:"stakeholder"`
}

type CreateProposalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
}

type CreateProposalResponse struct {
	Proposal *Proposal `json:"proposal"`
}

type GetProposalRequest struct {
	Id uint64 `json:"id"`
}

type GetProposalResponse struct {
	Proposal *Proposal `json:"proposal"`
}

type ListProposalsRequest struct{}

type ListProposalsResponse struct {
	Proposals []*Proposal `json:"proposals"`
}

type PerformVoteRequest struct {
	ProposalId uint64 `json:"proposalId"`
	Up         bool   `json:"up"`
}

type PerformVoteResponse struct {
	Event *Event `json:"event"`
}

type GetProposalVotesRequest struct {
	ProposalId uint64 `json:"proposalId"`
}

type GetProposalVotesResponse struct {
	Votes []*Vote `json:"votes"`
}

type PayBeneficiaryRequest struct {
	ProposalId uint64 `json:"proposalId"`
}

type PayBeneficiaryResponse struct {
	Event        *Event `json:"event"`
	TotalBalance string `json:"totalBalance"`
}

type GetStakeholderStatusRequest struct{}

type GetStakeholderStatusResponse struct {
	Stakeholder bool `json:"stakeholder"`
}

type IsContributorRequest struct{}

type IsContributorResponse struct {
	Contributor bool `json:"contributor"`
}

type GetStakeholderBalanceRequest struct{}

type GetStakeholderBalanceResponse struct {
	Balance string `json:"balance"`
}

type GetContributorBalanceRequest struct{}

type GetContributorBalanceResponse struct {
	Balance string `json:"balance"`
}

type GetTotalBalanceRequest struct{}

type GetTotalBalanceResponse struct {
	Balance string `json:"balance"`
}

type GetDeploymentRequest struct{}

type GetDeploymentResponse struct {
	Deployment *Deployment `json:"deployment"`
}

type ListContributorsRequest struct{}

type ListContributorsResponse struct {
	Contributors []*Contributor `json:"contributors"`
	Total        string         `json:"total"`
	Stakeholders int            `json:"stakeholders"`
}

type ListEventsRequest struct {
	AfterSeq uint64 `json:"afterSeq"`
	Limit    int    `json:"limit"`
	// ProposalId restricts the result to one proposal when set.
	ProposalId *uint64 `json:"proposalId,omitempty"`
}

type ListEventsResponse struct {
	Events  []*Event `json:"events"`
	LastSeq uint64   `json:"lastSeq"`
}
