// SPDX-License-Identifier: ice License 1.0

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/courier/otp"
	"github.com/ice-blockchain/courier/sms"
)

//nolint:gochecknoinits // Gin's mode is global, set it once for every test.
func init() {
	gin.SetMode(gin.TestMode)
}

type verifyingClient struct {
	verifyErr error
	verified  []string
	sent      []*sms.Parcel
}

func (c *verifyingClient) VerifyPhoneNumber(_ context.Context, number string) error {
	c.verified = append(c.verified, number)

	return c.verifyErr
}

func (c *verifyingClient) Send(_ context.Context, p *sms.Parcel) error {
	c.sent = append(c.sent, p)

	return nil
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(resp, req)

	return resp
}

func TestIssueOTPVerifiesDeliverabilityBeforeIssuing(t *testing.T) {
	t.Parallel()
	client := new(verifyingClient)
	svc := &service{otpGate: otp.New(), smsClient: client, defaultRegion: "IN"}
	router := gin.New()
	svc.RegisterRoutes(router)

	resp := postJSON(router, "/v1/sms/otp", `{"phoneNumber":"98765 43210"}`)

	assert.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, []string{"+919876543210"}, client.verified)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "+919876543210", client.sent[0].ToNumber)
	assert.Equal(t, sms.SMS, client.sent[0].Channel)
	assert.True(t, strings.HasPrefix(client.sent[0].Message, "Your OTP is: "))
}

func TestIssueOTPRejectsUndeliverablePhoneNumber(t *testing.T) {
	t.Parallel()
	client := &verifyingClient{verifyErr: sms.ErrInvalidPhoneNumber}
	svc := &service{otpGate: otp.New(), smsClient: client, defaultRegion: "IN"}
	router := gin.New()
	svc.RegisterRoutes(router)

	resp := postJSON(router, "/v1/sms/otp", `{"phoneNumber":"9876543210"}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, []string{"+919876543210"}, client.verified)
	assert.Empty(t, client.sent, "no otp may be sent to a number twilio cannot reach")
}
