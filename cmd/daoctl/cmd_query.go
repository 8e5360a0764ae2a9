package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/mmynk/daotreasury/internal/deploy"
	"github.com/mmynk/daotreasury/internal/models"
	"github.com/mmynk/daotreasury/internal/units"
	"github.com/mmynk/daotreasury/pkg/api"
)

var (
	balanceMine        bool
	balanceStakeholder bool
	eventsAfter        uint64
	eventsLimit        int
	eventsProposal     int64
	frontendDir        string
)

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "List every proposal",
	Args:  cobra.NoArgs,
	RunE:  runProposals,
}

var proposalCmd = &cobra.Command{
	Use:   "proposal [id]",
	Short: "Show one proposal",
	Args:  cobra.ExactArgs(1),
	RunE:  runProposal,
}

var votesCmd = &cobra.Command{
	Use:   "votes [proposal-id]",
	Short: "List the votes cast on a proposal",
	Args:  cobra.ExactArgs(1),
	RunE:  runVotes,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your contributor and stakeholder status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the treasury balance",
	Long: `Without flags prints the treasury's total balance. --mine prints your
contribution; --stakeholder prints it only if you are a stakeholder.`,
	Args: cobra.NoArgs,
	RunE: runBalance,
}

var contributorsCmd = &cobra.Command{
	Use:   "contributors",
	Short: "List contributors and their standing",
	Args:  cobra.NoArgs,
	RunE:  runContributors,
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Page through the treasury event journal",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

var deployerCmd = &cobra.Command{
	Use:   "deployer",
	Short: "Show the deployer and treasury address",
	Args:  cobra.NoArgs,
	RunE:  runDeployer,
}

var exportFrontendCmd = &cobra.Command{
	Use:   "export-frontend",
	Short: "Write address.json and abi.json for the web frontend",
	Args:  cobra.NoArgs,
	RunE:  runExportFrontend,
}

func init() {
	balanceCmd.Flags().BoolVar(&balanceMine, "mine", false, "Show your contribution")
	balanceCmd.Flags().BoolVar(&balanceStakeholder, "stakeholder", false, "Show your stakeholder balance")
	balanceCmd.MarkFlagsMutuallyExclusive("mine", "stakeholder")

	eventsCmd.Flags().Uint64Var(&eventsAfter, "after", 0, "Only events after this sequence number")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "Maximum number of events")
	eventsCmd.Flags().Int64Var(&eventsProposal, "proposal", -1, "Only events of this proposal")

	exportFrontendCmd.Flags().StringVar(&frontendDir, "dir", "frontend/constants", "Output directory")

	rootCmd.AddCommand(proposalsCmd, proposalCmd, votesCmd, statusCmd, balanceCmd,
		contributorsCmd, eventsCmd, deployerCmd, exportFrontendCmd)
}

func runProposals(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	proposals, err := publicClient().Proposals(ctx)
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No proposals yet")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAMOUNT (ETH)\tUP\tDOWN\tPAID\tDEADLINE")
	for _, p := range proposals {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%t\t%s\n",
			p.Id, p.Title, ether(p.Amount), p.UpVotes, p.DownVotes, p.Paid, formatTime(p.Deadline))
	}
	return w.Flush()
}

func runProposal(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	p, err := publicClient().Proposal(ctx, id)
	if err != nil {
		return err
	}
	printProposal(cmd.OutOrStdout(), p)
	return nil
}

func printProposal(out io.Writer, p *api.Proposal) {
	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", p.Id)
	fmt.Fprintf(w, "Title:\t%s\n", p.Title)
	fmt.Fprintf(w, "Description:\t%s\n", p.Description)
	fmt.Fprintf(w, "Creator:\t%s\n", p.Creator)
	fmt.Fprintf(w, "Beneficiary:\t%s\n", p.Beneficiary)
	fmt.Fprintf(w, "Amount:\t%s ETH\n", ether(p.Amount))
	fmt.Fprintf(w, "Votes:\t%d up, %d down\n", p.UpVotes, p.DownVotes)
	fmt.Fprintf(w, "Deadline:\t%s\n", formatTime(p.Deadline))
	if p.Paid {
		fmt.Fprintf(w, "Paid:\t%s by %s\n", formatTime(p.PaidAt), p.Executor)
	} else {
		fmt.Fprintf(w, "Paid:\tno\n")
	}
	w.Flush()
}

func runVotes(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	votes, err := publicClient().Votes(ctx, id)
	if err != nil {
		return err
	}
	if len(votes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No votes yet")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VOTER\tCHOICE\tCAST AT")
	for _, v := range votes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Voter, choice(v.Up), formatTime(v.CastAt))
	}
	return w.Flush()
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	c, err := memberClient(ctx)
	if err != nil {
		return err
	}
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Address:     %s\nContributor: %t\nStakeholder: %t\nContributed: %s ETH\n",
		st.Address.Hex(), st.Contributor, st.Stakeholder, units.FormatEther(st.Contributed))
	return nil
}

func runBalance(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if !balanceMine && !balanceStakeholder {
		total, err := publicClient().TotalBalance(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s ETH\n", units.FormatEther(total))
		return nil
	}

	c, err := memberClient(ctx)
	if err != nil {
		return err
	}
	get := c.ContributorBalance
	if balanceStakeholder {
		get = c.StakeholderBalance
	}
	bal, err := get(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s ETH\n", units.FormatEther(bal))
	return nil
}

func runContributors(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	resp, err := publicClient().Contributors(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tCONTRIBUTED (ETH)\tSTAKEHOLDER")
	for _, c := range resp.Contributors {
		fmt.Fprintf(w, "%s\t%s\t%t\n", c.Address, ether(c.Amount), c.Stakeholder)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d contributors, %d stakeholders, %s ETH contributed\n",
		len(resp.Contributors), resp.Stakeholders, ether(resp.Total))
	return nil
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var proposalID *uint64
	if eventsProposal >= 0 {
		id := uint64(eventsProposal)
		proposalID = &id
	}
	resp, err := publicClient().Events(ctx, eventsAfter, eventsLimit, proposalID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tKIND\tACTOR\tDETAIL")
	for _, e := range resp.Events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Seq, e.Kind, e.Actor, eventDetail(e))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "last seq %d\n", resp.LastSeq)
	return nil
}

func eventDetail(e *api.Event) string {
	switch models.EventKind(e.Kind) {
	case models.KindVote:
		return fmt.Sprintf("proposal %d %s (up %d, down %d)", e.ProposalId, choice(e.Choice), e.UpVotes, e.DownVotes)
	case models.KindProposal:
		return fmt.Sprintf("%s: proposal %d, %s ETH to %s", e.Label, e.ProposalId, ether(e.Amount), e.Beneficiary)
	default:
		return fmt.Sprintf("%s %s ETH", e.Label, ether(e.Amount))
	}
}

func runDeployer(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	d, err := publicClient().Deployment(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deployer: %s\nTreasury: %s\n", d.Deployer, d.Address)
	return nil
}

func runExportFrontend(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	d, err := publicClient().Deployment(ctx)
	if err != nil {
		return err
	}
	if err := deploy.WriteFrontendFiles(frontendDir, common.HexToAddress(d.Address), clientLogger()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s to %s\n", deploy.AddressFile, deploy.ABIFile, frontendDir)
	return nil
}

// ether renders a base-unit decimal string in ether. Unparseable input is
// returned unchanged.
func ether(baseUnits string) string {
	v, err := units.ParseBaseUnits(baseUnits)
	if err != nil {
		return baseUnits
	}
	return units.FormatEther(v)
}

func formatTime(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(unix, 0).Local().Format(time.DateTime)
}
