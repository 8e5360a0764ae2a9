// Package models defines the core domain models for the DAO treasury.
//
// # Models
//
//   - Contributor: an address and everything it has paid into the treasury
//   - Proposal: a funding request raised by a stakeholder
//   - Vote: one up/down vote on a proposal
//   - Event: an entry in the append-only governance journal
//   - Deployment: the treasury's identity (deployer and treasury address)
//
// Stakeholder status is not a model. It is derived from a contributor's
// cumulative amount and the configured threshold (see package tally).
//
// # Amounts
//
// All amounts are base units (10^18 per ether) held in *uint256.Int so that
// sums beyond 2^64 (anything over ~18.4 ether) stay exact. Conversion to and
// from decimal ether strings happens only at the edges (package units).
//
// # Addresses
//
// Addresses use go-ethereum's common.Address. They marshal as 0x-prefixed hex.
package models
