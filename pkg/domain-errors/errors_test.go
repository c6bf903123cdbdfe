package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		err := New(CodeNotFound, "missing")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("wrapped by fmt", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", New(CodeConflict, "dup"))
		assert.True(t, HasCode(err, CodeConflict))
		assert.Equal(t, CodeConflict, CodeOf(err))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("pq: violates foreign key constraint")
	err := Wrap(cause, CodeIntegrityConstraint, "record is in use elsewhere")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "record is in use elsewhere: pq: violates foreign key constraint", err.Error())
	assert.Equal(t, "record is in use elsewhere", err.Message)
}

func TestValidationFields(t *testing.T) {
	err := Validation("invalid request", "nome: is required", "id: must be positive")
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, []string{"nome: is required", "id: must be positive"}, err.Fields)
	assert.Equal(t, "nome: is required; id: must be positive", err.Join())
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvariantViolation:  http.StatusBadRequest,
		CodeValidation:          http.StatusBadRequest,
		CodeBadRequest:          http.StatusBadRequest,
		CodeNotFound:            http.StatusNotFound,
		CodeConflict:            http.StatusConflict,
		CodeIntegrityConstraint: http.StatusConflict,
		CodeRateLimited:         http.StatusTooManyRequests,
		CodeTimeout:             http.StatusGatewayTimeout,
		CodeInternal:            http.StatusInternalServerError,
		Code("unknown"):         http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
