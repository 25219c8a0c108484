// SPDX-License-Identifier: ice License 1.0

package batch

import (
	"github.com/ice-blockchain/courier/terror"
)

// Split partitions recipients into contiguous, order-preserving batches of at most size elements.
// The last batch may be smaller; an empty recipient list yields zero batches.
func Split(recipients []string, size int) ([][]string, error) {
	if size <= 0 {
		return nil, terror.New(ErrInvalidSize, map[string]any{"batchSize": size})
	}
	if len(recipients) == 0 {
		return nil, nil
	}
	batches := make([][]string, 0, (len(recipients)+size-1)/size)
	for start := 0; start < len(recipients); start += size {
		end := min(start+size, len(recipients))
		batches = append(batches, recipients[start:end:end])
	}

	return batches, nil
}
