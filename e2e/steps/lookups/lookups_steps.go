package lookups

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	DELETE(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers situação and atribuição step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &lookupSteps{tc: tc}

	ctx.Step(`^I create situacao "([^"]*)" named "([^"]*)"$`, steps.createSituacao)
	ctx.Step(`^situacao "([^"]*)" named "([^"]*)" exists$`, steps.situacaoExists)
	ctx.Step(`^no situacao "([^"]*)" exists$`, steps.noSituacao)
	ctx.Step(`^I create atribuicao "([^"]*)" named "([^"]*)"$`, steps.createAtribuicao)
	ctx.Step(`^atribuicao "([^"]*)" named "([^"]*)" exists$`, steps.atribuicaoExists)
}

type lookupSteps struct {
	tc TestContext
}

func (s *lookupSteps) createSituacao(ctx context.Context, id, nome string) error {
	return s.tc.POST("/api/v1/situacoes", map[string]interface{}{"id": id, "nome": nome})
}

func (s *lookupSteps) createAtribuicao(ctx context.Context, id, nome string) error {
	return s.tc.POST("/api/v1/atribuicoes", map[string]interface{}{"id": id, "nome": nome, "situacao": true})
}

func (s *lookupSteps) noSituacao(ctx context.Context, id string) error {
	if err := s.tc.DELETE("/api/v1/situacoes/" + id); err != nil {
		return err
	}
	switch s.tc.GetLastResponseStatus() {
	case http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("could not clear situacao %s: %d %s", id, s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
}

// Background steps tolerate rows left by earlier scenarios.
func (s *lookupSteps) situacaoExists(ctx context.Context, id, nome string) error {
	if err := s.createSituacao(ctx, id, nome); err != nil {
		return err
	}
	return s.createdOrConflict("situacao " + id)
}

func (s *lookupSteps) atribuicaoExists(ctx context.Context, id, nome string) error {
	if err := s.createAtribuicao(ctx, id, nome); err != nil {
		return err
	}
	return s.createdOrConflict("atribuicao " + id)
}

func (s *lookupSteps) createdOrConflict(what string) error {
	switch s.tc.GetLastResponseStatus() {
	case http.StatusCreated, http.StatusConflict:
		return nil
	default:
		return fmt.Errorf("could not ensure %s: %d %s", what, s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
}
