package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
)

func fakeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_StructuredNotFound(t *testing.T) {
	resp := fakeResponse(http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"product prod-1 not found"}}`)

	err := ParseResponseError(resp, "catalog")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestParseResponseError_StructuredBadRequest(t *testing.T) {
	resp := fakeResponse(http.StatusBadRequest, `{"error":{"code":"INVALID_INPUT","message":"quantity must be positive"}}`)

	err := ParseResponseError(resp, "catalog")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "catalog")
}

func TestParseResponseError_StructuredServiceUnavailable(t *testing.T) {
	resp := fakeResponse(http.StatusServiceUnavailable, `{"error":{"code":"SERVICE_UNAVAILABLE","message":"try later"}}`)

	err := ParseResponseError(resp, "catalog")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := fakeResponse(http.StatusBadGateway, `upstream timed out`)

	err := ParseResponseError(resp, "catalog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream timed out")
}
