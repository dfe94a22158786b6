package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"plain domain error", ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{"wrapped domain error", fmt.Errorf("transfer: %w", ErrInsufficientFunds), http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"detailed domain error", ErrAccountNotFound.WithDetail("account %q not found", "bob"), http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{"internal error", Internal("save account", stderrors.New("connection reset")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unknown error", stderrors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, StatusOf(tt.err))
			assert.Equal(t, tt.wantCode, CodeOf(tt.err))
		})
	}
}

func TestWithDetailKeepsIdentity(t *testing.T) {
	err := ErrAccountNotFound.WithDetail("account %q not found", "bob")

	assert.True(t, stderrors.Is(err, ErrAccountNotFound))
	assert.False(t, stderrors.Is(err, ErrSelfTransfer))
	assert.Equal(t, `account "bob" not found`, err.Error())
}

func TestInternal(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Internal("save account", cause)

	assert.True(t, IsInternal(err))
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "save account")
	assert.Nil(t, Internal("noop", nil))
	assert.False(t, IsInternal(ErrForbidden))
}
