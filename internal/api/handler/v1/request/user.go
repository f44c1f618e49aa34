package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/contestify/contest-api/internal/domain"
)

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(1, 100)),
		validation.Field(&req.Photo, is.URL),
	)
}

type ChangeRoleRequest struct {
	Role string `json:"role" example:"creator"`
}

func (req *ChangeRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required, validation.In(
			string(domain.RoleUser), string(domain.RoleCreator), string(domain.RoleAdmin),
		)),
	)
}
