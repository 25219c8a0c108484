// SPDX-License-Identifier: ice License 1.0

package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/courier/dispatch"
)

const (
	testApplicationYAMLKey = "self"
)

type capturingClient struct {
	parcels []*Parcel
}

func (c *capturingClient) VerifyPhoneNumber(_ context.Context, _ string) error {
	return nil
}

func (c *capturingClient) Send(_ context.Context, p *Parcel) error {
	c.parcels = append(c.parcels, p)

	return nil
}

func TestNewLoadsConfig(t *testing.T) {
	t.Parallel()
	client := New(testApplicationYAMLKey)
	impl := client.(*sms) //nolint:forcetypeassert // We know for sure.
	assert.Equal(t, "+15005550006", impl.cfg.CourierSMS.FromPhoneNumber)
	assert.Equal(t, "whatsapp:+15005550006", impl.cfg.CourierSMS.WhatsAppSender)
}

func TestParcelAddressing(t *testing.T) {
	t.Parallel()
	p := &Parcel{ToNumber: "+358451234567", Message: "hi", Channel: SMS}
	assert.Equal(t, "+358451234567", p.addressedTo())
	p.Channel = WhatsApp
	assert.Equal(t, "whatsapp:+358451234567", p.addressedTo())

	client := New(testApplicationYAMLKey).(*sms) //nolint:forcetypeassert // We know for sure.
	assert.Equal(t, "+15005550006", client.addressedFrom(SMS))
	assert.Equal(t, "whatsapp:+15005550006", client.addressedFrom(WhatsApp))
}

func TestAsSenderMapsParcel(t *testing.T) {
	t.Parallel()
	client := new(capturingClient)
	sender := AsSender(client, WhatsApp)

	require.NoError(t, sender.Send(t.Context(), "+358451234567", &dispatch.Parcel{From: "ignored", Subject: "ignored", Body: "hello there"}))
	require.Len(t, client.parcels, 1)
	assert.Equal(t, &Parcel{ToNumber: "+358451234567", Message: "hello there", Channel: WhatsApp}, client.parcels[0])
}
