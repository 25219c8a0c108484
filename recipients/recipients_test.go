// SPDX-License-Identifier: ice License 1.0

package recipients

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/courier/terror"
)

const (
	testApplicationYAMLKey = "self"
)

func TestFromCSV(t *testing.T) {
	t.Parallel()
	input := strings.NewReader("9876543210,alice\n\n9876543211,bob\n ,charlie\n9876543210,dup\n")
	parsed, err := FromCSV(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"9876543210", "9876543211", "9876543210"}, parsed)

	parsed, err = FromCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestFromLines(t *testing.T) {
	t.Parallel()
	input := strings.NewReader(" +358451234567 \n\n+358451234568\n")
	parsed, err := FromLines(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"+358451234567", "+358451234568"}, parsed)
}

func TestNormalizePhoneNumber(t *testing.T) {
	t.Parallel()
	normalized, err := NormalizePhoneNumber("98765 43210", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", normalized)

	normalized, err = NormalizePhoneNumber("+919876543210", "US")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", normalized, "international prefix wins over the region")

	for _, invalid := range []string{"", "bogus", "123"} {
		_, err = NormalizePhoneNumber(invalid, "IN")
		require.ErrorIs(t, err, ErrInvalidPhoneNumber, invalid)
		if tErr := terror.As(err); tErr != nil {
			assert.EqualValues(t, map[string]any{"phoneNumber": invalid}, tErr.Data)
		}
	}
}

func TestNormalizePhoneNumbersFailsFast(t *testing.T) {
	t.Parallel()
	normalized, err := NormalizePhoneNumbers([]string{"9876543210", "9876543211"}, "IN")
	require.NoError(t, err)
	assert.Equal(t, []string{"+919876543210", "+919876543211"}, normalized)

	_, err = NormalizePhoneNumbers([]string{"9876543210", "bogus"}, "IN")
	require.ErrorIs(t, err, ErrInvalidPhoneNumber)
}

func TestDefaultRegion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "IN", DefaultRegion(testApplicationYAMLKey))
}
