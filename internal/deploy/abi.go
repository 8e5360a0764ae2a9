package deploy

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABIParam is one input, output or event field.
type ABIParam struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Indexed    bool       `json:"indexed,omitempty"`
	Components []ABIParam `json:"components,omitempty"`
}

// ABIEntry is one function or event of the treasury interface.
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty"`
}

var proposalTuple = []ABIParam{
	{Name: "id", Type: "uint256"},
	{Name: "title", Type: "string"},
	{Name: "description", Type: "string"},
	{Name: "beneficiary", Type: "address"},
	{Name: "amount", Type: "uint256"},
	{Name: "upVote", Type: "uint256"},
	{Name: "downVotes", Type: "uint256"},
	{Name: "livePeriod", Type: "uint256"},
	{Name: "paid", Type: "bool"},
	{Name: "paidBy", Type: "address"},
}

var voteTuple = []ABIParam{
	{Name: "voter", Type: "address"},
	{Name: "proposalId", Type: "uint256"},
	{Name: "choice", Type: "bool"},
}

func view(name string, inputs []ABIParam, outputs ...ABIParam) ABIEntry {
	return ABIEntry{Name: name, Type: "function", Inputs: inputs, Outputs: outputs, StateMutability: "view"}
}

func mutating(name, mutability string, inputs ...ABIParam) ABIEntry {
	return ABIEntry{Name: name, Type: "function", Inputs: inputs, Outputs: []ABIParam{}, StateMutability: mutability}
}

// TreasuryABI describes every treasury operation and event.
var TreasuryABI = []ABIEntry{
	mutating("contribute", "payable"),
	mutating("createProposal", "nonpayable",
		ABIParam{Name: "title", Type: "string"},
		ABIParam{Name: "description", Type: "string"},
		ABIParam{Name: "beneficiary", Type: "address"},
		ABIParam{Name: "amount", Type: "uint256"},
	),
	mutating("performVote", "nonpayable",
		ABIParam{Name: "proposalId", Type: "uint256"},
		ABIParam{Name: "supportProposal", Type: "bool"},
	),
	mutating("payBeneficiary", "nonpayable",
		ABIParam{Name: "proposalId", Type: "uint256"},
	),

	view("getProposals", []ABIParam{{Name: "proposalId", Type: "uint256"}},
		ABIParam{Name: "", Type: "tuple", Components: proposalTuple}),
	view("getAllProposals", nil,
		ABIParam{Name: "", Type: "tuple[]", Components: proposalTuple}),
	view("getProposalVote", []ABIParam{{Name: "proposalId", Type: "uint256"}},
		ABIParam{Name: "", Type: "tuple[]", Components: voteTuple}),
	view("stakeholderStatus", nil, ABIParam{Name: "", Type: "bool"}),
	view("isContributor", nil, ABIParam{Name: "", Type: "bool"}),
	view("getStakeholdersBalances", nil, ABIParam{Name: "", Type: "uint256"}),
	view("getContributorsBalance", nil, ABIParam{Name: "", Type: "uint256"}),
	view("getTotalBalance", nil, ABIParam{Name: "", Type: "uint256"}),
	view("getDeployer", nil, ABIParam{Name: "", Type: "address"}),

	{
		Name: "ContributionAction", Type: "event",
		Inputs: []ABIParam{
			{Name: "emitter", Type: "address", Indexed: true},
			{Name: "timestamp", Type: "uint256"},
			{Name: "action", Type: "string"},
			{Name: "amount", Type: "uint256"},
		},
	},
	{
		Name: "ProposalAction", Type: "event",
		Inputs: []ABIParam{
			{Name: "emitter", Type: "address", Indexed: true},
			{Name: "timestamp", Type: "uint256"},
			{Name: "action", Type: "string"},
			{Name: "beneficiary", Type: "address", Indexed: true},
			{Name: "amount", Type: "uint256"},
		},
	},
	{
		Name: "VoteAction", Type: "event",
		Inputs: []ABIParam{
			{Name: "voter", Type: "address", Indexed: true},
			{Name: "proposalId", Type: "uint256", Indexed: true},
			{Name: "title", Type: "string"},
			{Name: "beneficiary", Type: "address"},
			{Name: "amount", Type: "uint256"},
			{Name: "upVote", Type: "uint256"},
			{Name: "downVotes", Type: "uint256"},
			{Name: "choice", Type: "bool"},
		},
	},
}

// ABIJSON encodes TreasuryABI and checks that it parses as a contract ABI.
func ABIJSON() ([]byte, error) {
	data, err := json.MarshalIndent(TreasuryABI, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode abi: %w", err)
	}
	if _, err := abi.JSON(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("abi does not parse: %w", err)
	}
	return data, nil
}
