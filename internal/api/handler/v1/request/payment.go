package request

import validation "github.com/go-ozzo/ozzo-validation"

type ConfirmPaymentRequest struct {
	SessionID string `json:"sessionId" example:"cs_test_a1b2c3"`
}

func (req *ConfirmPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SessionID, validation.Required, validation.Length(1, 255)),
	)
}
