package models

type AtribuicaoResponse struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Situacao bool   `json:"situacao"`
}

// AtribuicaoSummary is the list projection.
type AtribuicaoSummary struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

func ToResponse(a *Atribuicao) *AtribuicaoResponse {
	return &AtribuicaoResponse{ID: a.ID, Nome: a.Nome, Situacao: a.Situacao}
}

func ToSummary(a *Atribuicao) AtribuicaoSummary {
	return AtribuicaoSummary{ID: a.ID, Nome: a.Nome}
}
