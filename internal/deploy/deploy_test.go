package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/mmynk/daotreasury/internal/storage/sqlite"
)

var hardhatDeployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTreasuryAddress(t *testing.T) {
	// Hardhat's first deployment from account #0 lands here.
	assert.Equal(t,
		common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		TreasuryAddress(hardhatDeployer),
	)
}

func TestEnsure(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "deploy.db"))
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	first, err := Ensure(ctx, store, hardhatDeployer, time.Unix(1700000000, 0), discard())
	require.NoError(t, err)
	assert.Equal(t, TreasuryAddress(hardhatDeployer), first.Address)
	assert.Equal(t, int64(1700000000), first.CreatedAt)

	again, err := Ensure(ctx, store, hardhatDeployer, time.Unix(1800000000, 0), discard())
	require.NoError(t, err)
	assert.Equal(t, first, again)

	_, err = Ensure(ctx, store, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), time.Now(), discard())
	assert.Error(t, err)
}

func TestABIJSON(t *testing.T) {
	data, err := ABIJSON()
	require.NoError(t, err)

	parsed, err := abi.JSON(bytes.NewReader(data))
	require.NoError(t, err)

	for _, name := range []string{
		"contribute", "createProposal", "performVote", "payBeneficiary",
		"getProposals", "getAllProposals", "getProposalVote", "stakeholderStatus",
		"isContributor", "getStakeholdersBalances", "getContributorsBalance",
		"getTotalBalance", "getDeployer",
	} {
		_, ok := parsed.Methods[name]
		assert.True(t, ok, "missing method %s", name)
	}

	vote, ok := parsed.Events["VoteAction"]
	require.True(t, ok)
	require.Len(t, vote.Inputs, 8)
	assert.Equal(t, "beneficiary", vote.Inputs[3].Name)
	assert.Equal(t, "amount", vote.Inputs[4].Name)
	assert.Equal(t, "choice", vote.Inputs[7].Name)

	for _, name := range []string{"ProposalAction", "ContributionAction"} {
		_, ok := parsed.Events[name]
		assert.True(t, ok, "missing event %s", name)
	}
	assert.True(t, parsed.Methods["contribute"].IsPayable())
}

// Frontends subscribe by topic, so the event signatures must hash to the
// topics a Solidity compiler would emit.
func TestABIEventTopics(t *testing.T) {
	data, err := ABIJSON()
	require.NoError(t, err)
	parsed, err := abi.JSON(bytes.NewReader(data))
	require.NoError(t, err)

	signatures := map[string]string{
		"ContributionAction": "ContributionAction(address,uint256,string,uint256)",
		"ProposalAction":     "ProposalAction(address,uint256,string,address,uint256)",
		"VoteAction":         "VoteAction(address,uint256,string,address,uint256,uint256,uint256,bool)",
	}
	for name, sig := range signatures {
		h := sha3.NewLegacyKeccak256()
		h.Write([]byte(sig))
		want := common.BytesToHash(h.Sum(nil))

		ev, ok := parsed.Events[name]
		require.True(t, ok, "missing event %s", name)
		assert.Equal(t, sig, ev.Sig)
		assert.Equal(t, want, ev.ID, "topic of %s", name)
	}
}

func TestWriteFrontendFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "constants")
	addr := TreasuryAddress(hardhatDeployer)

	require.NoError(t, WriteFrontendFiles(dir, addr, discard()))

	raw, err := os.ReadFile(filepath.Join(dir, AddressFile))
	require.NoError(t, err)
	var got string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr.Hex(), got)

	abiRaw, err := os.ReadFile(filepath.Join(dir, ABIFile))
	require.NoError(t, err)
	_, err = abi.JSON(bytes.NewReader(abiRaw))
	assert.NoError(t, err)
}
