// SPDX-License-Identifier: ice License 1.0

package email

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
)

// Public API.

const (
	MaxBatchSize = 1000
)

const (
	TextHTML  ContentType = "text/html"
	TextPlain ContentType = "text/plain"
)

type (
	ContentType string

	Participant struct {
		Name  string
		Email string
	}

	Body struct {
		Type ContentType
		Data string
	}

	Parcel struct {
		Body    *Body
		From    Participant
		Subject string
	}

	Client interface {
		Send(ctx context.Context, parcel *Parcel, destinations ...Participant) error
	}
)

// Private API.

const (
	requestDeadline = 25 * stdlibtime.Second
)

// .
var (
	errPleaseRetry = errors.New("please retry")
)

type (
	email struct {
		client *sendgrid.Client
	}

	config struct {
		CourierEmail struct {
			Credentials struct {
				APIKey string `yaml:"apiKey" mapstructure:"apiKey"`
			} `yaml:"credentials" mapstructure:"credentials"`
			FromName    string `yaml:"fromName" mapstructure:"fromName"`
			FromAddress string `yaml:"fromAddress" mapstructure:"fromAddress"`
		} `yaml:"courier/email" mapstructure:"courier/email"` //nolint:tagliatelle // Nope.
	}
)
