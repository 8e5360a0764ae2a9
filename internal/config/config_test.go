package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/daotreasury/internal/tally"
)

// chdirTemp runs the test from an empty directory so a developer's .env does
// not leak in.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, uint64(params.Ether), policy.StakeholderThreshold.Uint64())
	assert.Equal(t, 5*time.Minute, policy.VotingPeriod)
	assert.Equal(t, uint64(1), policy.Quorum)
	assert.Equal(t, uint64(50), policy.MajorityPercent)
	assert.Equal(t, tally.PayoutBeforeDeadline, policy.PayoutTiming)

	deployer, err := cfg.Deployer()
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", deployer.Hex())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "treasury.yaml")
	yamlDoc := `
server:
  port: 9090
governance:
  stakeholder_threshold: "0.5"
  voting_period: 1h
  quorum: 3
  payout_timing: after-deadline
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0644))

	t.Setenv("PORT", "7070")
	t.Setenv("MAJORITY_PERCENT", "66")
	t.Setenv("UPDATE_FRONTEND", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Frontend.Update)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, uint64(params.Ether/2), policy.StakeholderThreshold.Uint64())
	assert.Equal(t, time.Hour, policy.VotingPeriod)
	assert.Equal(t, uint64(3), policy.Quorum)
	assert.Equal(t, uint64(66), policy.MajorityPercent)
	assert.Equal(t, tally.PayoutAfterDeadline, policy.PayoutTiming)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VOTING_PERIOD=90s\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("VOTING_PERIOD") })

	cfg, err := Load("")
	require.NoError(t, err)
	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, policy.VotingPeriod)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad port", key: "PORT", val: "http"},
		{name: "bad quorum", key: "QUORUM", val: "-1"},
		{name: "zero quorum", key: "QUORUM", val: "0"},
		{name: "bad threshold", key: "STAKEHOLDER_THRESHOLD", val: "one"},
		{name: "bad timing", key: "PAYOUT_TIMING", val: "later"},
		{name: "bad deployer", key: "DEPLOYER_ADDRESS", val: "0x123"},
		{name: "bad period", key: "VOTING_PERIOD", val: "-5m"},
		{name: "sub-second period", key: "VOTING_PERIOD", val: "500ms"},
		{name: "bad log format", key: "LOG_FORMAT", val: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
