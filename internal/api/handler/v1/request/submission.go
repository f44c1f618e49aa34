package request

import validation "github.com/go-ozzo/ozzo-validation"

type SubmitRequest struct {
	Content string `json:"content" example:"https://drive.example.com/logo.svg"`
}

func (req *SubmitRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Content, validation.Required, validation.Length(1, 5000)),
	)
}
