package authapimodels

import (
	apimodels "sabbatical-backend/models/api"
)

// DevLoginRequest issues a token without an identity provider. Only served in dev mode.
type DevLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=255"`
}

func (r DevLoginRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}
