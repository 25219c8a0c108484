// SPDX-License-Identifier: ice License 1.0

package recipients

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/pkg/errors"

	appcfg "github.com/ice-blockchain/courier/config"
	"github.com/ice-blockchain/courier/terror"
)

// DefaultRegion returns the configured fallback region for phone numbers without an international prefix.
func DefaultRegion(applicationYAMLKey string) string {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if cfg.CourierRecipients.DefaultRegion == "" {
		return "US"
	}

	return cfg.CourierRecipients.DefaultRegion
}

// FromCSV extracts the ordered recipient sequence from the first column of each row.
// Blank cells are skipped; order and duplicates are preserved, because order is send-priority order.
func FromCSV(reader io.Reader) ([]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	var result []string
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read csv row")
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		result = append(result, strings.TrimSpace(row[0]))
	}

	return result, nil
}

// FromLines extracts one recipient per line, skipping blank lines.
func FromLines(reader io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(reader)
	var result []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result = append(result, line)
	}

	return result, errors.Wrap(scanner.Err(), "failed to scan recipient lines")
}

// NormalizePhoneNumber parses raw into E.164 format, using region for numbers without an international prefix.
func NormalizePhoneNumber(raw, region string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", terror.New(ErrInvalidPhoneNumber, map[string]any{"phoneNumber": raw})
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", terror.New(ErrInvalidPhoneNumber, map[string]any{"phoneNumber": raw})
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// NormalizePhoneNumbers normalizes every recipient, failing fast on the first invalid one.
func NormalizePhoneNumbers(raw []string, region string) ([]string, error) {
	result := make([]string, 0, len(raw))
	for _, number := range raw {
		normalized, err := NormalizePhoneNumber(number, region)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to normalize phone number %v", number)
		}
		result = append(result, normalized)
	}

	return result, nil
}
