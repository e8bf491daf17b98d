package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuth, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindConfig, http.StatusInternalServerError},
		{KindUpstream, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(New(tc.kind, "boom")), string(tc.kind))
	}
}

func TestHTTPStatus_UntaggedError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := Wrap(KindNotFound, "request not found", errors.New("no document"))
	outer := fmt.Errorf("accept failed: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(outer))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(outer))
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindUpstream, "transcription failed", errors.New("connection reset"))
	assert.Equal(t, "transcription failed: connection reset", err.Error())
	assert.Equal(t, "bad id", New(KindValidation, "bad id").Error())
}
