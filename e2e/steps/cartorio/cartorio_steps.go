package cartorio

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	PUT(path string, body interface{}) error
	GET(path string) error
	DELETE(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers cartório step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &cartorioSteps{tc: tc}

	ctx.Step(`^no cartorio (\d+) exists$`, steps.noCartorio)
	ctx.Step(`^I create cartorio (\d+) named "([^"]*)" with situacao "([^"]*)" and atribuicoes "([^"]*)"$`, steps.createCartorio)
	ctx.Step(`^I create cartorio (\d+) named "([^"]*)" with situacao "([^"]*)" and no atribuicoes$`, steps.createCartorioWithoutAtribuicoes)
	ctx.Step(`^cartorio (\d+) named "([^"]*)" exists with atribuicoes "([^"]*)"$`, steps.cartorioExists)
	ctx.Step(`^I get cartorio (\d+)$`, steps.getCartorio)
	ctx.Step(`^I remove atribuicao "([^"]*)" from cartorio (\d+)$`, steps.removeAtribuicao)
	ctx.Step(`^I add atribuicao "([^"]*)" to cartorio (\d+)$`, steps.addAtribuicao)
}

type cartorioSteps struct {
	tc TestContext
}

func path(id int) string {
	return fmt.Sprintf("/api/v1/cartorios/%d", id)
}

func split(ids string) []string {
	var out []string
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// noCartorio deletes a leftover record so scenarios can rerun against the
// same server.
func (s *cartorioSteps) noCartorio(ctx context.Context, id int) error {
	if err := s.tc.DELETE(path(id)); err != nil {
		return err
	}
	switch s.tc.GetLastResponseStatus() {
	case http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("could not clear cartorio %d: %d %s", id, s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
}

func (s *cartorioSteps) create(id int, nome, situacaoID string, atribuicoes []string) error {
	if atribuicoes == nil {
		atribuicoes = []string{}
	}
	return s.tc.POST("/api/v1/cartorios", map[string]interface{}{
		"id":             id,
		"nome":           nome,
		"situacaoId":     situacaoID,
		"atribuicoesIds": atribuicoes,
	})
}

func (s *cartorioSteps) createCartorio(ctx context.Context, id int, nome, situacaoID, atribuicoes string) error {
	return s.create(id, nome, situacaoID, split(atribuicoes))
}

func (s *cartorioSteps) createCartorioWithoutAtribuicoes(ctx context.Context, id int, nome, situacaoID string) error {
	return s.create(id, nome, situacaoID, nil)
}

func (s *cartorioSteps) cartorioExists(ctx context.Context, id int, nome, atribuicoes string) error {
	if err := s.noCartorio(ctx, id); err != nil {
		return err
	}
	if err := s.create(id, nome, "SIT_ATIVO", split(atribuicoes)); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != http.StatusCreated {
		return fmt.Errorf("could not create cartorio %d: %d %s", id, s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *cartorioSteps) getCartorio(ctx context.Context, id int) error {
	return s.tc.GET(path(id))
}

func (s *cartorioSteps) removeAtribuicao(ctx context.Context, atribuicaoID string, id int) error {
	return s.tc.PUT(path(id)+"/atribuicoes/remove", map[string]interface{}{"id": atribuicaoID})
}

func (s *cartorioSteps) addAtribuicao(ctx context.Context, atribuicaoID string, id int) error {
	return s.tc.PUT(path(id)+"/atribuicoes/add", map[string]interface{}{"id": atribuicaoID})
}
