// SPDX-License-Identifier: ice License 1.0

package sms

import (
	"context"
	"os"
	"strings"
	stdlibtime "time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioopenapi "github.com/twilio/twilio-go/rest/api/v2010"

	appcfg "github.com/ice-blockchain/courier/config"
	"github.com/ice-blockchain/courier/log"
	"github.com/ice-blockchain/courier/terror"
)

func New(applicationYAMLKey string) Client {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)

	if cfg.CourierSMS.Credentials.User == "" {
		module := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(applicationYAMLKey, "-", "_"), "/", "_"))
		cfg.CourierSMS.Credentials.User = os.Getenv(module + "_SMS_CLIENT_USER")
		if cfg.CourierSMS.Credentials.User == "" {
			cfg.CourierSMS.Credentials.User = os.Getenv("SMS_CLIENT_USER")
		}
	}
	if cfg.CourierSMS.Credentials.Password == "" {
		module := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(applicationYAMLKey, "-", "_"), "/", "_"))
		cfg.CourierSMS.Credentials.Password = os.Getenv(module + "_SMS_CLIENT_PASSWORD")
		if cfg.CourierSMS.Credentials.Password == "" {
			cfg.CourierSMS.Credentials.Password = os.Getenv("SMS_CLIENT_PASSWORD")
		}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.CourierSMS.Credentials.User,
		Password: cfg.CourierSMS.Credentials.Password,
	})
	client.SetTimeout(requestDeadline)

	return &sms{client: client, cfg: &cfg}
}

func (s *sms) VerifyPhoneNumber(ctx context.Context, number string) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "context error")
	}

	return errors.Wrap(retry(ctx, func() error {
		return s.verifyPhoneNumber(ctx, number)
	}), "failed to verify phone number via twilio")
}

func (s *sms) verifyPhoneNumber(ctx context.Context, number string) error { //nolint:revive // confusing-naming: It's an internal impl that can be retried.
	if ctx.Err() != nil {
		//nolint:wrapcheck // It's a proxy.
		return backoff.Permanent(ctx.Err())
	}
	lookupResponse, err := s.client.LookupsV1.FetchPhoneNumber(number, nil)
	if err != nil {
		//nolint:errorlint // errors.As(err,*twilioclient.TwilioRestError) doesn't seem to work.
		if tErr, ok := err.(*twilioclient.TwilioRestError); !ok || tErr.Code != 20404 || tErr.Status != 404 {
			return errors.Wrapf(err, "failed to validate and lookup phone number %v", number)
		}

		return backoff.Permanent(ErrInvalidPhoneNumber) //nolint:wrapcheck // No need to do that, we have everything we need.
	}
	if lookupResponse.PhoneNumber != nil && number != *lookupResponse.PhoneNumber {
		//nolint:wrapcheck // No need to do that, we have everything we need.
		return backoff.Permanent(terror.New(ErrInvalidPhoneNumberFormat, map[string]any{"phoneNumber": *lookupResponse.PhoneNumber}))
	}

	return nil
}

func (s *sms) Send(ctx context.Context, parcel *Parcel) error {
	return errors.Wrapf(retry(ctx, func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		msg := new(twilioopenapi.CreateMessageParams).
			SetTo(parcel.addressedTo()).
			SetFrom(s.addressedFrom(parcel.Channel)).
			SetBody(parcel.Message)
		_, err := s.client.Api.CreateMessage(msg)

		//nolint:wrapcheck // It's wrapped outside.
		return err
	}), "failed to send %v message via twilio", parcel.Channel)
}

func (p *Parcel) addressedTo() string {
	if p.Channel == WhatsApp {
		return whatsAppAddressPrefix + p.ToNumber
	}

	return p.ToNumber
}

func (s *sms) addressedFrom(channel Channel) string {
	if channel == WhatsApp {
		return s.cfg.CourierSMS.WhatsAppSender
	}

	return s.cfg.CourierSMS.FromPhoneNumber
}

func retry(ctx context.Context, op func() error) error {
	//nolint:wrapcheck // No need, its just a proxy.
	return backoff.RetryNotify(
		op,
		backoff.WithContext(&backoff.ExponentialBackOff{
			InitialInterval:     100 * stdlibtime.Millisecond, //nolint:mnd,gomnd // .
			RandomizationFactor: 0.5,                          //nolint:mnd,gomnd // .
			Multiplier:          2.5,                          //nolint:mnd,gomnd // .
			MaxInterval:         stdlibtime.Second,
			MaxElapsedTime:      requestDeadline,
			Stop:                backoff.Stop,
			Clock:               backoff.SystemClock,
		}, ctx),
		func(e error, next stdlibtime.Duration) {
			log.Error(errors.Wrapf(e, "courier/sms call failed. retrying in %v... ", next))
		})
}
