package models

import (
	pstrings "escriba/pkg/platform/strings"
	"escriba/pkg/platform/validation"
)

const atLeastOneAtribuicao = "at least one attribution is required"

var createMessages = validation.Messages{
	"atribuicoesIds.required": atLeastOneAtribuicao,
	"atribuicoesIds.min":      atLeastOneAtribuicao,
}

// CreateCartorioRequest is the POST body.
type CreateCartorioRequest struct {
	ID             int      `json:"id" validate:"required,gt=0"`
	Nome           string   `json:"nome" validate:"notblank,max=150"`
	Observacao     *string  `json:"observacao,omitempty" validate:"omitempty,max=250"`
	SituacaoID     string   `json:"situacaoId" validate:"notblank,max=20"`
	AtribuicoesIDs []string `json:"atribuicoesIds" validate:"required,min=1,max=100,dive,notblank,max=20"`
}

// Normalize trims strings, turns a blank observacao into nil and removes
// repeated atribuição ids.
func (r *CreateCartorioRequest) Normalize() {
	pstrings.TrimPtr(&r.Nome)
	pstrings.TrimPtr(&r.SituacaoID)
	if r.Observacao != nil {
		r.Observacao = pstrings.EmptyToNil(*r.Observacao)
	}
	if r.AtribuicoesIDs != nil {
		r.AtribuicoesIDs = pstrings.DedupeAndTrim(r.AtribuicoesIDs)
	}
}

func (r *CreateCartorioRequest) Validate() error {
	return validation.Struct(r, createMessages)
}

// UpdateCartorioRequest replaces nome and observacao only.
type UpdateCartorioRequest struct {
	Nome       string  `json:"nome" validate:"notblank,max=150"`
	Observacao *string `json:"observacao,omitempty" validate:"omitempty,max=250"`
}

func (r *UpdateCartorioRequest) Normalize() {
	pstrings.TrimPtr(&r.Nome)
	if r.Observacao != nil {
		r.Observacao = pstrings.EmptyToNil(*r.Observacao)
	}
}

func (r *UpdateCartorioRequest) Validate() error {
	return validation.Struct(r, nil)
}

// ReferenceRequest carries the id of a situação or atribuição to link.
type ReferenceRequest struct {
	ID string `json:"id" validate:"notblank,max=20"`
}

func (r *ReferenceRequest) Normalize() {
	pstrings.TrimPtr(&r.ID)
}

func (r *ReferenceRequest) Validate() error {
	return validation.Struct(r, nil)
}
