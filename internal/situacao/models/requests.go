package models

import (
	pstrings "escriba/pkg/platform/strings"
	"escriba/pkg/platform/validation"
)

// CreateSituacaoRequest is the POST body.
type CreateSituacaoRequest struct {
	ID   string `json:"id" validate:"notblank,max=20"`
	Nome string `json:"nome" validate:"notblank,max=50"`
}

func (r *CreateSituacaoRequest) Normalize() {
	pstrings.TrimPtr(&r.ID)
	pstrings.TrimPtr(&r.Nome)
}

func (r *CreateSituacaoRequest) Validate() error {
	return validation.Struct(r, nil)
}

// UpdateSituacaoRequest is the PUT body. The id comes from the path.
type UpdateSituacaoRequest struct {
	Nome string `json:"nome" validate:"notblank,max=50"`
}

func (r *UpdateSituacaoRequest) Normalize() {
	pstrings.TrimPtr(&r.Nome)
}

func (r *UpdateSituacaoRequest) Validate() error {
	return validation.Struct(r, nil)
}
