package models

// SituacaoResponse is the full view. It carries the same fields as the
// summary since a situação has nothing else.
type SituacaoResponse struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

// SituacaoSummary is the list projection.
type SituacaoSummary struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

func ToResponse(s *Situacao) *SituacaoResponse {
	return &SituacaoResponse{ID: s.ID, Nome: s.Nome}
}

func ToSummary(s *Situacao) SituacaoSummary {
	return SituacaoSummary{ID: s.ID, Nome: s.Nome}
}
