package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/mmynk/daotreasury/internal/client"
	"github.com/mmynk/daotreasury/internal/units"
)

var (
	proposalTitle       string
	proposalDescription string
	proposalBeneficiary string
	proposalAmount      string
)

var contributeCmd = &cobra.Command{
	Use:   "contribute [ether]",
	Short: "Contribute ether to the treasury",
	Long: `Adds the amount to your contribution. A cumulative contribution of at
least the stakeholder threshold (1 ether by default) makes you a stakeholder.`,
	Args: cobra.ExactArgs(1),
	RunE: runContribute,
}

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Raise a funding proposal (stakeholders only)",
	Args:  cobra.NoArgs,
	RunE:  runPropose,
}

var voteCmd = &cobra.Command{
	Use:   "vote [proposal-id] [up|down]",
	Short: "Vote on a proposal (contributors only, once)",
	Args:  cobra.ExactArgs(2),
	RunE:  runVote,
}

var payCmd = &cobra.Command{
	Use:   "pay [proposal-id]",
	Short: "Pay a proposal's beneficiary (stakeholders only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPay,
}

func init() {
	proposeCmd.Flags().StringVar(&proposalTitle, "title", "", "Proposal title (required)")
	proposeCmd.Flags().StringVar(&proposalDescription, "description", "", "Proposal description")
	proposeCmd.Flags().StringVar(&proposalBeneficiary, "beneficiary", "", "Beneficiary address (required)")
	proposeCmd.Flags().StringVar(&proposalAmount, "amount", "", "Amount in ether (required)")
	_ = proposeCmd.MarkFlagRequired("title")
	_ = proposeCmd.MarkFlagRequired("beneficiary")
	_ = proposeCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(contributeCmd, proposeCmd, voteCmd, payCmd)
}

func runContribute(cmd *cobra.Command, args []string) error {
	amount, err := units.ParseEther(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := memberClient(ctx)
	if err != nil {
		return err
	}
	resp, err := c.Contribute(ctx, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Contributed %s ETH (total %s ETH, stakeholder: %t)\n",
		units.FormatEther(amount), ether(resp.Contributed), resp.Stakeholder)
	return nil
}

func runPropose(cmd *cobra.Command, args []string) error {
	if !common.IsHexAddress(proposalBeneficiary) {
		return fmt.Errorf("invalid beneficiary address %q", proposalBeneficiary)
	}
	amount, err := units.ParseEther(proposalAmount)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c, err := memberClient(ctx)
	if err != nil {
		return err
	}
	p, err := c.CreateProposal(ctx, client.ProposalInput{
		Title:       proposalTitle,
		Description: proposalDescription,
		Beneficiary: common.HexToAddress(proposalBeneficiary),
		Amount:      amount,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Proposal %d raised: %q, %s ETH to %s, voting ends %s\n",
		p.Id, p.Title, ether(p.Amount), p.Beneficiary, formatTime(p.Deadline))
	return nil
}

func runVote(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	var up bool
	switch strings.ToLower(args[1]) {
	case "up", "yes", "for":
		up = true
	case "down", "no", "against":
	default:
		return fmt.Errorf("vote must be up or down, got %q", args[1])
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	c, err := memberClient(ctx)
	if err != nil {
		return err
	}
	ev, err := c.Vote(ctx, id, up)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Voted %s on proposal %d (up %d, down %d)\n",
		choice(ev.Choice), ev.ProposalId, ev.UpVotes, ev.DownVotes)
	return nil
}

func runPay(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	c, err := memberClient(ctx)
	if err != nil {
		return err
	}
	resp, err := c.Pay(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Paid %s ETH to %s, treasury balance %s ETH\n",
		ether(resp.Event.Amount), resp.Event.Beneficiary, ether(resp.TotalBalance))
	return nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal id %q", s)
	}
	return id, nil
}

func choice(up bool) string {
	if up {
		return "up"
	}
	return "down"
}
