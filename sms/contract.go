// SPDX-License-Identifier: ice License 1.0

package sms

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
)

// Public API.

const (
	SMS      Channel = "sms"
	WhatsApp Channel = "whatsapp"
)

var (
	ErrInvalidPhoneNumber       = errors.New("phone number invalid")
	ErrInvalidPhoneNumberFormat = errors.New("phone number has invalid format")
)

type (
	Channel string

	Parcel struct {
		ToNumber string
		Message  string
		Channel  Channel
	}

	Client interface {
		VerifyPhoneNumber(ctx context.Context, number string) error
		Send(ctx context.Context, p *Parcel) error
	}
)

// Private API.

const (
	requestDeadline = 25 * stdlibtime.Second

	whatsAppAddressPrefix = "whatsapp:"
)

type (
	sms struct {
		client *twilio.RestClient
		cfg    *config
	}

	config struct {
		CourierSMS struct {
			Credentials struct {
				User     string `yaml:"user"`
				Password string `yaml:"password"`
			} `yaml:"credentials" mapstructure:"credentials"`
			FromPhoneNumber string `yaml:"fromPhoneNumber" mapstructure:"fromPhoneNumber"`
			WhatsAppSender  string `yaml:"whatsAppSender" mapstructure:"whatsAppSender"`
		} `yaml:"courier/sms" mapstructure:"courier/sms"` //nolint:tagliatelle // Nope.
	}
)
