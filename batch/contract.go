// SPDX-License-Identifier: ice License 1.0

package batch

import (
	"github.com/pkg/errors"
)

// Public API.

const (
	// DefaultSize is the default maximum number of recipients dispatched as one unit.
	DefaultSize = 500
)

var (
	ErrInvalidSize = errors.New("batch size must be positive")
)
