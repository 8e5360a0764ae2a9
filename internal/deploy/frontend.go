package deploy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
)

// Frontend file names.
const (
	AddressFile = "address.json"
	ABIFile     = "abi.json"
)

// WriteFrontendFiles writes address.json (the treasury address as a JSON
// string) and abi.json into dir.
func WriteFrontendFiles(dir string, address common.Address, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create frontend directory: %w", err)
	}

	addressJSON, err := json.Marshal(address.Hex())
	if err != nil {
		return fmt.Errorf("failed to encode address: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, AddressFile), addressJSON, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", AddressFile, err)
	}
	logger.Info("Updated frontend address", "path", filepath.Join(dir, AddressFile), "address", address.Hex())

	abiJSON, err := ABIJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ABIFile), abiJSON, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ABIFile, err)
	}
	logger.Info("Updated frontend abi", "path", filepath.Join(dir, ABIFile), "entries", len(TreasuryABI))
	return nil
}
