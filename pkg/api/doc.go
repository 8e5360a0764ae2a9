// Package api defines the request and response messages of the treasury RPC
// services. Messages are plain structs encoded as JSON. Amounts are decimal
// strings in base units and addresses are 0x-prefixed hex.
package api
