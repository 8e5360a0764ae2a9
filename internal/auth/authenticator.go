package auth

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (wallet
// signatures, hardware keys, etc.) without changing the service layer code.
type Authenticator interface {
	// Challenge issues a message the holder of address must sign to log in.
	Challenge(ctx context.Context, address common.Address) (message string, expiresAt time.Time, err error)

	// Authenticate checks a signature over the pending challenge and returns
	// the address that proved ownership. A challenge can be used only once.
	Authenticate(ctx context.Context, address common.Address, signature []byte) (common.Address, error)
}
