// SPDX-License-Identifier: ice License 1.0

package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/courier/terror"
)

func TestSplitPartitionsContiguouslyAndExhaustively(t *testing.T) {
	t.Parallel()
	for _, tt := range []struct {
		name          string
		total, size   int
		expectedSizes []int
	}{
		{"evenly divisible", 1000, 500, []int{500, 500}},
		{"short last batch", 1200, 500, []int{500, 500, 200}},
		{"single short batch", 123, 500, []int{123}},
		{"size of one", 3, 1, []int{1, 1, 1}},
		{"exact single batch", 500, 500, []int{500}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			recipients := make([]string, 0, tt.total)
			for i := range tt.total {
				recipients = append(recipients, fmt.Sprintf("+3584512345%02d", i%100))
			}
			batches, err := Split(recipients, tt.size)
			require.NoError(t, err)
			require.Len(t, batches, len(tt.expectedSizes))
			roundTrip := make([]string, 0, tt.total)
			for i, b := range batches {
				assert.Len(t, b, tt.expectedSizes[i])
				roundTrip = append(roundTrip, b...)
			}
			assert.Equal(t, recipients, roundTrip)
		})
	}
}

func TestSplitEmptyRecipients(t *testing.T) {
	t.Parallel()
	batches, err := Split(nil, DefaultSize)
	require.NoError(t, err)
	assert.Empty(t, batches)
	batches, err = Split([]string{}, 1)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestSplitInvalidSize(t *testing.T) {
	t.Parallel()
	for _, size := range []int{0, -1, -500} {
		batches, err := Split([]string{"+358451234500"}, size)
		require.ErrorIs(t, err, ErrInvalidSize)
		assert.Nil(t, batches)
		tErr := terror.As(err)
		require.NotNil(t, tErr)
		assert.EqualValues(t, map[string]any{"batchSize": size}, tErr.Data)
	}
}

func TestSplitPreservesDuplicatesAndOrder(t *testing.T) {
	t.Parallel()
	recipients := []string{"a", "b", "a", "c", "b"}
	batches, err := Split(recipients, 2)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, [][]string{{"a", "b"}, {"a", "c"}, {"b"}}, batches)
}
