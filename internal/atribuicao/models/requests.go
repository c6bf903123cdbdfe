package models

import (
	pstrings "escriba/pkg/platform/strings"
	"escriba/pkg/platform/validation"
)

// CreateAtribuicaoRequest is the POST body. Situacao defaults to true.
type CreateAtribuicaoRequest struct {
	ID       string `json:"id" validate:"notblank,max=20"`
	Nome     string `json:"nome" validate:"notblank,max=50"`
	Situacao *bool  `json:"situacao,omitempty"`
}

func (r *CreateAtribuicaoRequest) Normalize() {
	pstrings.TrimPtr(&r.ID)
	pstrings.TrimPtr(&r.Nome)
}

func (r *CreateAtribuicaoRequest) Validate() error {
	return validation.Struct(r, nil)
}

// UpdateAtribuicaoRequest renames an atribuição. The active flag is changed
// through the situacao endpoint only.
type UpdateAtribuicaoRequest struct {
	Nome string `json:"nome" validate:"notblank,max=50"`
}

func (r *UpdateAtribuicaoRequest) Normalize() {
	pstrings.TrimPtr(&r.Nome)
}

func (r *UpdateAtribuicaoRequest) Validate() error {
	return validation.Struct(r, nil)
}
