// SPDX-License-Identifier: ice License 1.0

package sms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/courier/dispatch"
)

type (
	channelSender struct {
		client  Client
		channel Channel
	}
)

// AsSender adapts the twilio client to the dispatch engine: one call delivers the parcel body
// to one recipient over the given channel.
func AsSender(client Client, channel Channel) dispatch.Sender {
	return &channelSender{client: client, channel: channel}
}

func (s *channelSender) Send(ctx context.Context, recipient string, parcel *dispatch.Parcel) error {
	return errors.Wrapf(s.client.Send(ctx, &Parcel{
		ToNumber: recipient,
		Message:  parcel.Body,
		Channel:  s.channel,
	}), "failed to deliver %v message to %v", s.channel, recipient)
}
