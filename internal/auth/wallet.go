package auth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

var (
	ErrNoChallenge      = errors.New("no pending login challenge")
	ErrChallengeExpired = errors.New("login challenge expired")
	ErrInvalidSignature = errors.New("signature does not match address")
)

// ChallengeStorage defines the persistence the wallet authenticator needs.
// This allows the authenticator to be independent of the storage implementation.
type ChallengeStorage interface {
	SaveChallenge(ctx context.Context, address common.Address, message string, expiresAt time.Time) error
	ConsumeChallenge(ctx context.Context, address common.Address) (string, time.Time, error)
}

// WalletAuthenticator implements challenge/response login with personal_sign
// (EIP-191) signatures.
type WalletAuthenticator struct {
	storage ChallengeStorage
	ttl     time.Duration
	now     func() time.Time
}

// NewWalletAuthenticator creates an authenticator whose challenges expire after ttl.
func NewWalletAuthenticator(storage ChallengeStorage, ttl time.Duration) *WalletAuthenticator {
	return &WalletAuthenticator{
		storage: storage,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Challenge creates and stores a fresh login message for address.
func (a *WalletAuthenticator) Challenge(ctx context.Context, address common.Address) (string, time.Time, error) {
	expiresAt := a.now().Add(a.ttl)
	message := fmt.Sprintf(
		"Sign in to DAO Treasury\n\nAddress: %s\nNonce: %s\nExpires: %s",
		address.Hex(), uuid.NewString(), expiresAt.UTC().Format(time.RFC3339),
	)

	if err := a.storage.SaveChallenge(ctx, address, message, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store challenge: %w", err)
	}
	return message, expiresAt, nil
}

// Authenticate verifies that signature is address's signature over its
// pending challenge. The challenge is consumed whether or not it verifies.
func (a *WalletAuthenticator) Authenticate(ctx context.Context, address common.Address, signature []byte) (common.Address, error) {
	message, expiresAt, err := a.storage.ConsumeChallenge(ctx, address)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrNoChallenge, err)
	}
	if a.now().After(expiresAt) {
		return common.Address{}, ErrChallengeExpired
	}

	signer, err := RecoverSigner(message, signature)
	if err != nil {
		return common.Address{}, err
	}
	if signer != address {
		return common.Address{}, ErrInvalidSignature
	}
	return signer, nil
}

// RecoverSigner returns the address that produced a personal_sign signature
// over message. Both 0/1 and 27/28 recovery ids are accepted.
func RecoverSigner(message string, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSignature, crypto.SignatureLength, len(signature))
	}
	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SignMessage produces the personal_sign signature a wallet would return,
// with a 27/28 recovery id.
func SignMessage(key *ecdsa.PrivateKey, message string) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// ParseSignature decodes a 0x-prefixed hex signature.
func ParseSignature(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("%w: missing 0x prefix", ErrInvalidSignature)
	}
	b := common.FromHex(s)
	if len(b) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSignature, crypto.SignatureLength, len(b))
	}
	return b, nil
}
