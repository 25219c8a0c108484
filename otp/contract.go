// SPDX-License-Identifier: ice License 1.0

package otp

import (
	"sync"
	stdlibtime "time"

	"github.com/ice-blockchain/courier/time"
)

// Public API.

const (
	CodeLength = 6
	// TTL is how long an issued code stays valid.
	TTL = 5 * stdlibtime.Minute
)

const (
	Valid Outcome = iota
	Expired
	NotFound
	Mismatch
)

type (
	Outcome uint8

	// Gate issues and verifies short-lived one-time codes keyed by a verified identity.
	// Verification is read-only: a Valid outcome does not consume the code, so repeated
	// verification with the same code succeeds until expiry.
	Gate interface {
		Issue(now *time.Time, identity string) string
		Verify(now *time.Time, identity, candidate string) Outcome
	}
)

// Private API.

type (
	gate struct {
		mx      sync.Mutex
		records map[string]*record
	}
	record struct {
		issuedAt  *time.Time
		expiresAt *time.Time
		code      string
	}
)
