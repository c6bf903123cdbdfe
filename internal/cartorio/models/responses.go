package models

type SituacaoView struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

type AtribuicaoView struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Situacao bool   `json:"situacao"`
}

// CartorioResponse is the detail view with resolved references.
type CartorioResponse struct {
	ID          int              `json:"id"`
	Nome        string           `json:"nome"`
	Observacao  *string          `json:"observacao"`
	Situacao    SituacaoView     `json:"situacao"`
	Atribuicoes []AtribuicaoView `json:"atribuicoes"`
}

// CartorioSummary is the list projection.
type CartorioSummary struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

func ToResponse(c *Cartorio) *CartorioResponse {
	atribuicoes := make([]AtribuicaoView, 0, len(c.atribuicoes))
	for _, a := range c.Atribuicoes() {
		atribuicoes = append(atribuicoes, AtribuicaoView{ID: a.ID, Nome: a.Nome, Situacao: a.Active})
	}
	return &CartorioResponse{
		ID:          c.ID,
		Nome:        c.Nome,
		Observacao:  c.Observacao,
		Situacao:    SituacaoView{ID: c.situacao.ID, Nome: c.situacao.Nome},
		Atribuicoes: atribuicoes,
	}
}

func ToSummary(r *Record) CartorioSummary {
	return CartorioSummary{ID: r.ID, Nome: r.Nome}
}
