// SPDX-License-Identifier: ice License 1.0

package recipients

import (
	"github.com/pkg/errors"
)

// Public API.

var (
	ErrInvalidPhoneNumber = errors.New("phone number invalid")
)

// Private API.

type (
	config struct {
		CourierRecipients struct {
			DefaultRegion string `yaml:"defaultRegion" mapstructure:"defaultRegion"`
		} `yaml:"courier/recipients" mapstructure:"courier/recipients"` //nolint:tagliatelle // Nope.
	}
)
