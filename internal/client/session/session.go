// Package session holds the single persisted credential of the tasklist
// client.
//
// The store is one slot: Set replaces whatever was there, Clear empties it.
// Nothing about the credential is interpreted here; it stays opaque until
// the server rejects it. Callers re-read the store on every page mount, so
// a change made by another process is picked up on the next mount only.
package session

import (
	"context"
	"errors"
)

// CredentialKey is the well-known key the credential is stored under.
const CredentialKey = "token"

// ErrEmptyCredential is returned by Set for a blank credential.
var ErrEmptyCredential = errors.New("empty credential")

// Store is the session slot contract.
//
// Get reports ok=false when no credential is stored; err is reserved for
// storage failures.
type Store interface {
	Get(ctx context.Context) (credential string, ok bool, err error)
	Set(ctx context.Context, credential string) error
	Clear(ctx context.Context) error
}
