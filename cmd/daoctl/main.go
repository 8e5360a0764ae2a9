package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/mmynk/daotreasury/internal/client"
	"github.com/mmynk/daotreasury/pkg/logging"
)

var (
	// Global flags
	serverURL  string
	privateKey string
	logLevel   string
	timeout    time.Duration

	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "daoctl",
	Short: "Command-line wallet for the DAO treasury",
	Long: `daoctl talks to a treasury server the way the web frontend does.

Commands that act on behalf of a member sign a login challenge with the
private key from --key (or DAO_PRIVATE_KEY). Amounts are given in ether.

Example:
  daoctl contribute 5
  daoctl propose --title "Audit" --beneficiary 0x15d3... --amount 1
  daoctl vote 0 up
  daoctl pay 0`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.Setup(logLevel, "text")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("DAO_SERVER", "http://localhost:8080"), "Treasury server URL (or set DAO_SERVER env)")
	rootCmd.PersistentFlags().StringVarP(&privateKey, "key", "k", "", "Hex private key (or set DAO_PRIVATE_KEY env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if notice, ok := client.Notice(err); ok {
			fmt.Fprintln(os.Stderr, notice)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func loadKey() (*ecdsa.PrivateKey, error) {
	raw := privateKey
	if raw == "" {
		raw = os.Getenv("DAO_PRIVATE_KEY")
	}
	if raw == "" {
		return nil, fmt.Errorf("a private key is required: pass --key or set DAO_PRIVATE_KEY")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

func clientLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// publicClient is for calls that need no login.
func publicClient() *client.Client {
	return client.New(serverURL, client.WithLogger(clientLogger()))
}

// memberClient logs in with the configured key.
func memberClient(ctx context.Context) (*client.Client, error) {
	key, err := loadKey()
	if err != nil {
		return nil, err
	}
	c := client.New(serverURL, client.WithPrivateKey(key), client.WithLogger(clientLogger()))
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
