package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{http.StatusUnauthorized, ErrorTypeAuth},
		{http.StatusForbidden, ErrorTypeAuth},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusInternalServerError, ErrorTypeServerError},
		{http.StatusBadGateway, ErrorTypeServerError},
		{http.StatusBadRequest, ErrorTypeUnknown},
		{http.StatusTeapot, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, FromStatusCode(tt.code))
		})
	}
}

func TestErrorString(t *testing.T) {
	withCode := New(ErrorTypeNotFound, 404, "resource %s not found", "abc")
	assert.Equal(t, "not_found error (code 404): resource abc not found", withCode.Error())

	withoutCode := New(ErrorTypeParsing, 0, "bad json")
	assert.Equal(t, "parsing error: bad json", withoutCode.Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := fs.ErrPermission
	err := Wrap(ErrorTypeFilesystem, cause, "failed to write %s", "ISIC_0000000.jpg")

	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "failed to write ISIC_0000000.jpg")
	assert.Contains(t, err.Error(), cause.Error())
}

func TestCategories(t *testing.T) {
	transport := fmt.Errorf("page 2: %w", New(ErrorTypeServerError, 503, "server error"))
	decode := fmt.Errorf("page 1: %w", New(ErrorTypeParsing, 200, "missing results"))
	filesystem := fmt.Errorf("save: %w", Wrap(ErrorTypeFilesystem, fs.ErrNotExist, "open"))
	plain := errors.New("plain")

	assert.True(t, IsTransport(transport))
	assert.False(t, IsDecode(transport))

	assert.True(t, IsDecode(decode))
	assert.False(t, IsTransport(decode))

	assert.True(t, IsFilesystem(filesystem))
	assert.False(t, IsTransport(filesystem))

	assert.False(t, IsTransport(plain))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(plain))
	assert.Equal(t, ErrorTypeServerError, TypeOf(transport))
}
