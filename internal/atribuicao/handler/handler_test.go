package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escriba/internal/atribuicao/models"
	"escriba/internal/atribuicao/service"
	"escriba/internal/atribuicao/store"
	"escriba/pkg/testutil"
)

const prefix = "/api/v1"

func newRouter() chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Route(prefix, New(service.New(store.NewInMemory()), logger, prefix).Register)
	return r
}

func post(t *testing.T, r http.Handler, body map[string]any) {
	t.Helper()
	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, prefix+"/atribuicoes", body))
	testutil.AssertStatus(t, rr, http.StatusCreated)
}

func TestCreateAtribuicao(t *testing.T) {
	r := newRouter()

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, prefix+"/atribuicoes",
		map[string]any{"id": "ATRIB_NOTAS", "nome": "Notas", "situacao": true}))

	testutil.AssertStatus(t, rr, http.StatusCreated)
	assert.Equal(t, "/api/v1/atribuicoes/ATRIB_NOTAS", rr.Header().Get("Location"))
	body := testutil.Decode[models.AtribuicaoResponse](t, rr)
	assert.Equal(t, "ATRIB_NOTAS", body.ID)
	assert.True(t, body.Situacao)
}

func TestListActiveAtribuicoes(t *testing.T) {
	r := newRouter()
	post(t, r, map[string]any{"id": "ATRIB_NOTAS", "nome": "Notas"})
	post(t, r, map[string]any{"id": "ATRIB_PROT", "nome": "Protesto", "situacao": false})

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, prefix+"/atribuicoes/ativas"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	active := testutil.Decode[[]models.AtribuicaoResponse](t, rr)
	require.Len(t, active, 1)
	assert.Equal(t, "ATRIB_NOTAS", active[0].ID)
}

func TestChangeSituacao(t *testing.T) {
	r := newRouter()
	post(t, r, map[string]any{"id": "ATRIB_NOTAS", "nome": "Notas"})

	testutil.Given(t, "an active atribuicao", func(t *testing.T) {
		testutil.When(t, "it is deactivated", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPatch, prefix+"/atribuicoes/ATRIB_NOTAS/situacao?situacao=false"))
			testutil.AssertStatus(t, rr, http.StatusOK)
			testutil.AssertJSONContains(t, rr, "situacao", false)
		})

		testutil.When(t, "the flag is not a boolean", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPatch, prefix+"/atribuicoes/ATRIB_NOTAS/situacao?situacao=maybe"))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
		})

		testutil.When(t, "the id is unknown", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPatch, prefix+"/atribuicoes/NOPE/situacao?situacao=true"))
			testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
		})
	})
}

func TestUpdateAndDeleteAtribuicao(t *testing.T) {
	r := newRouter()
	post(t, r, map[string]any{"id": "ATRIB_NOTAS", "nome": "Notas"})
	post(t, r, map[string]any{"id": "ATRIB_PROT", "nome": "Protesto"})

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPut, prefix+"/atribuicoes/ATRIB_PROT",
		map[string]any{"nome": "NOTAS"}))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")

	rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPut, prefix+"/atribuicoes/ATRIB_PROT",
		map[string]any{"nome": "Protesto de Títulos"}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodDelete, prefix+"/atribuicoes/ATRIB_PROT"))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, prefix+"/atribuicoes/ATRIB_PROT"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}
