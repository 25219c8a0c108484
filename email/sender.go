// SPDX-License-Identifier: ice License 1.0

package email

import (
	"context"

	"github.com/pkg/errors"

	appcfg "github.com/ice-blockchain/courier/config"
	"github.com/ice-blockchain/courier/dispatch"
)

type (
	channelSender struct {
		client Client
		from   Participant
	}
)

// AsSender adapts the sendgrid client to the dispatch engine, delivering the parcel as HTML
// to one destination per call. The parcel's From overrides the configured sender identity when set.
func AsSender(applicationYAMLKey string, client Client) dispatch.Sender {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)

	return &channelSender{
		client: client,
		from:   Participant{Name: cfg.CourierEmail.FromName, Email: cfg.CourierEmail.FromAddress},
	}
}

func (s *channelSender) Send(ctx context.Context, recipient string, parcel *dispatch.Parcel) error {
	from := s.from
	if parcel.From != "" {
		from = Participant{Email: parcel.From}
	}

	return errors.Wrapf(s.client.Send(ctx, &Parcel{
		Body:    &Body{Type: TextHTML, Data: parcel.Body},
		From:    from,
		Subject: parcel.Subject,
	}, Participant{Email: recipient}), "failed to deliver email to %v", recipient)
}
