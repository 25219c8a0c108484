// SPDX-License-Identifier: ice License 1.0

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/courier/dispatch"
	"github.com/ice-blockchain/courier/log"
	"github.com/ice-blockchain/courier/otp"
	"github.com/ice-blockchain/courier/recipients"
	"github.com/ice-blockchain/courier/sms"
	"github.com/ice-blockchain/courier/time"
)

type (
	issueOTPRequest struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
	}
	verifyOTPRequest struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
	}
	sendRequest struct {
		PhoneNumbers []string `json:"phoneNumbers" binding:"required"`
		Message      string   `json:"message" binding:"required"`
	}
	sendWhatsAppRequest struct {
		ToNumber string `json:"toNumber" binding:"required"`
		Message  string `json:"message" binding:"required"`
	}
	sendBulkEmailRequest struct {
		Recipients  []string `json:"recipients" binding:"required"`
		Subject     string   `json:"subject" binding:"required"`
		HTMLContent string   `json:"htmlContent" binding:"required"`
		SenderEmail string   `json:"senderEmail"`
	}
	apiResponse struct {
		Data    any    `json:"data,omitempty"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
)

func (s *service) issueOTP(ginCtx *gin.Context) {
	var req issueOTPRequest
	if err := ginCtx.ShouldBindJSON(&req); err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	number, err := recipients.NormalizePhoneNumber(req.PhoneNumber, s.defaultRegion)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "invalid phone number format"})

		return
	}
	if err = s.smsClient.VerifyPhoneNumber(ginCtx.Request.Context(), number); err != nil {
		if errors.Is(err, sms.ErrInvalidPhoneNumber) || errors.Is(err, sms.ErrInvalidPhoneNumberFormat) {
			ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "phone number is not reachable"})

			return
		}
		log.Error(errors.Wrapf(err, "failed to verify phone number %v", number))
		ginCtx.JSON(http.StatusInternalServerError, apiResponse{Status: "error", Message: "failed to verify phone number"})

		return
	}
	code := s.otpGate.Issue(time.Now(), number)
	if err = s.smsClient.Send(ginCtx.Request.Context(), &sms.Parcel{ToNumber: number, Message: "Your OTP is: " + code, Channel: sms.SMS}); err != nil {
		log.Error(errors.Wrapf(err, "failed to deliver otp to %v", number))
		ginCtx.JSON(http.StatusInternalServerError, apiResponse{Status: "error", Message: "failed to deliver otp"})

		return
	}
	ginCtx.JSON(http.StatusOK, apiResponse{Status: "success", Message: "otp sent to the phone number"})
}

func (s *service) verifyOTP(ginCtx *gin.Context) {
	var req verifyOTPRequest
	if err := ginCtx.ShouldBindJSON(&req); err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	number, err := recipients.NormalizePhoneNumber(req.PhoneNumber, s.defaultRegion)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "invalid phone number format"})

		return
	}
	switch outcome := s.otpGate.Verify(time.Now(), number, req.OTP); outcome {
	case otp.Valid:
		ginCtx.JSON(http.StatusOK, apiResponse{Status: "success", Message: "otp verified successfully"})
	case otp.Expired, otp.NotFound:
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "otp has expired or was not sent"})
	case otp.Mismatch:
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "invalid otp"})
	default:
		log.Warn("unexpected otp verification outcome", "outcome", outcome.String())
		ginCtx.JSON(http.StatusInternalServerError, apiResponse{Status: "error", Message: "unexpected verification outcome"})
	}
}

func (s *service) sendSMS(ginCtx *gin.Context) {
	var req sendRequest
	if err := ginCtx.ShouldBindJSON(&req); err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	s.deliverNow(ginCtx, s.smsScheduler, req.PhoneNumbers, req.Message)
}

func (s *service) sendBulkSMS(ginCtx *gin.Context) {
	var req sendRequest
	if err := ginCtx.ShouldBindJSON(&req); err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	s.deliverBulk(ginCtx, s.smsScheduler, req.PhoneNumbers, &dispatch.Parcel{Body: req.Message})
}

func (s *service) sendSMSFromCSV(ginCtx *gin.Context) {
	message := ginCtx.PostForm("message")
	if message == "" {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "a message must be provided"})

		return
	}
	fileHeader, err := ginCtx.FormFile("file")
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "a csv file must be provided"})

		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "failed to open the csv file"})

		return
	}
	defer file.Close()
	numbers, err := recipients.FromCSV(file)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: "failed to parse the csv file"})

		return
	}
	s.deliverBulk(ginCtx, s.smsScheduler, numbers, &dispatch.Parcel{Body: message})
}

func (s *service) sendWhatsApp(ginCtx *gin.Context) {
	var req sendWhatsAppRequest
	if err := ginCtx.ShouldBindJSON(&req); err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	s.deliverNow(ginCtx, s.whatsAppScheduler, []string{req.ToNumber}, req.Message)
}

func (s *service) sendBulkWhatsApp(ginCtx *gin.Context) {
	var req sendRequest
	if err := ginCtx.ShouldBindJSON(&req); err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	s.deliverBulk(ginCtx, s.whatsAppScheduler, req.PhoneNumbers, &dispatch.Parcel{Body: req.Message})
}

func (s *service) sendBulkEmail(ginCtx *gin.Context) {
	var req sendBulkEmailRequest
	if err := ginCtx.ShouldBindJSON(&req); err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	parcel := &dispatch.Parcel{From: req.SenderEmail, Subject: req.Subject, Body: req.HTMLContent}
	result, handles, err := s.emailScheduler.SendBulk(ginCtx.Request.Context(), req.Recipients, parcel)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	ginCtx.JSON(http.StatusOK, apiResponse{Status: "success", Message: "bulk email send scheduled", Data: bulkData(result, handles)})
}

func (s *service) deliverNow(ginCtx *gin.Context, scheduler dispatch.Scheduler, rawNumbers []string, message string) {
	numbers, err := recipients.NormalizePhoneNumbers(rawNumbers, s.defaultRegion)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	result := scheduler.SendNow(ginCtx.Request.Context(), numbers, &dispatch.Parcel{Body: message})
	log.Error(errors.Wrap(result.Err(), "immediate send partially failed"))
	ginCtx.JSON(http.StatusOK, apiResponse{Status: "success", Message: "messages sent", Data: resultData(result)})
}

func (s *service) deliverBulk(ginCtx *gin.Context, scheduler dispatch.Scheduler, rawNumbers []string, parcel *dispatch.Parcel) {
	numbers, err := recipients.NormalizePhoneNumbers(rawNumbers, s.defaultRegion)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	result, handles, err := scheduler.SendBulk(ginCtx.Request.Context(), numbers, parcel)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, apiResponse{Status: "error", Message: err.Error()})

		return
	}
	ginCtx.JSON(http.StatusOK, apiResponse{Status: "success", Message: "bulk send scheduled", Data: bulkData(result, handles)})
}

func resultData(result *dispatch.Result) map[string]any {
	if result == nil {
		return nil
	}

	return map[string]any{"attempted": result.Attempted, "delivered": result.Delivered, "failed": result.Failed()}
}

func bulkData(result *dispatch.Result, handles []dispatch.TaskHandle) map[string]any {
	deferred := make([]map[string]any, 0, len(handles))
	for _, handle := range handles {
		deferred = append(deferred, map[string]any{"taskId": handle.ID(), "fireAt": handle.FireAt()})
	}
	data := map[string]any{"deferredBatches": deferred}
	if immediate := resultData(result); immediate != nil {
		data["immediateBatch"] = immediate
	}

	return data
}
