package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itskdhere/together-we/pkg/types"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "not authenticated", err: types.ErrNotAuthenticated, expected: http.StatusUnauthorized},
		{name: "not onboarded", err: types.ErrNotOnboarded, expected: http.StatusForbidden},
		{name: "missing event", err: types.ErrEventNotFound, expected: http.StatusNotFound},
		{name: "full event", err: types.ErrEventFull, expected: http.StatusConflict},
		{name: "duplicate join", err: types.ErrAlreadyJoined, expected: http.StatusConflict},
		{name: "not joined", err: types.ErrNotJoined, expected: http.StatusConflict},
		{name: "taken username", err: types.ErrUsernameTaken, expected: http.StatusConflict},
		{name: "wrapped sentinel", err: errors.Join(errors.New("context"), types.ErrEventFull), expected: http.StatusConflict},
		{name: "unknown error", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := classifyError(tt.err)
			assert.Equal(t, tt.expected, status)
			assert.NotEmpty(t, message)
		})
	}
}
