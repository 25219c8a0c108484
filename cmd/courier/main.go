// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/ice-blockchain/courier/dispatch"
	"github.com/ice-blockchain/courier/email"
	"github.com/ice-blockchain/courier/otp"
	"github.com/ice-blockchain/courier/recipients"
	"github.com/ice-blockchain/courier/server"
	"github.com/ice-blockchain/courier/sms"
)

const (
	applicationYAMLKey = "courier"
)

type (
	service struct {
		otpGate           otp.Gate
		smsClient         sms.Client
		smsScheduler      dispatch.Scheduler
		whatsAppScheduler dispatch.Scheduler
		emailScheduler    dispatch.Scheduler
		defaultRegion     string
	}
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	server.New(new(service), applicationYAMLKey).ListenAndServe(ctx, cancel)
}

func (s *service) Init(_ context.Context, _ context.CancelFunc) {
	s.otpGate = otp.New()
	s.smsClient = sms.New(applicationYAMLKey)
	s.smsScheduler = dispatch.New(applicationYAMLKey, sms.AsSender(s.smsClient, sms.SMS))
	s.whatsAppScheduler = dispatch.New(applicationYAMLKey, sms.AsSender(s.smsClient, sms.WhatsApp))
	s.emailScheduler = dispatch.New(applicationYAMLKey, email.AsSender(applicationYAMLKey, email.New(applicationYAMLKey)))
	s.defaultRegion = recipients.DefaultRegion(applicationYAMLKey)
}

func (s *service) Close(_ context.Context) error {
	for _, scheduler := range []dispatch.Scheduler{s.smsScheduler, s.whatsAppScheduler, s.emailScheduler} {
		if scheduler != nil {
			_ = scheduler.Close()
		}
	}

	return nil
}

func (s *service) CheckHealth(_ context.Context) error {
	return nil
}

func (s *service) RegisterRoutes(router *server.Router) {
	v1 := router.Group("v1")
	v1.POST("sms/otp", s.issueOTP)
	v1.POST("sms/otp/verify", s.verifyOTP)
	v1.POST("sms/send", s.sendSMS)
	v1.POST("sms/send-bulk", s.sendBulkSMS)
	v1.POST("sms/send-csv", s.sendSMSFromCSV)
	v1.POST("whatsapp/send", s.sendWhatsApp)
	v1.POST("whatsapp/send-bulk", s.sendBulkWhatsApp)
	v1.POST("email/send-bulk", s.sendBulkEmail)
}
