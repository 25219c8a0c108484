// SPDX-License-Identifier: ice License 1.0

package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/courier/log"
	"github.com/ice-blockchain/courier/time"
)

func New() Gate {
	return &gate{records: make(map[string]*record)}
}

func (g *gate) Issue(now *time.Time, identity string) string {
	code := generateCode()
	g.mx.Lock()
	defer g.mx.Unlock()
	g.records[identity] = &record{
		issuedAt:  now,
		expiresAt: time.New(now.Add(TTL)),
		code:      code,
	}

	return code
}

func (g *gate) Verify(now *time.Time, identity, candidate string) Outcome {
	g.mx.Lock()
	defer g.mx.Unlock()
	rec, found := g.records[identity]
	if !found {
		return NotFound
	}
	if now.After(*rec.expiresAt.Time) {
		delete(g.records, identity)

		return Expired
	}
	if candidate != rec.code {
		return Mismatch
	}

	return Valid
}

func generateCode() string {
	val, err := rand.Int(rand.Reader, big.NewInt(1_000_000)) //nolint:mnd,gomnd // The full 6 digit range, upper bound excluded.
	log.Panic(errors.Wrap(err, "failed to generate random code")) //nolint:revive // .

	return fmt.Sprintf("%0*d", CodeLength, val.Int64())
}

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case Expired:
		return "expired"
	case NotFound:
		return "notFound"
	case Mismatch:
		return "mismatch"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}
