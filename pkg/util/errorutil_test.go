package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayErrorKeepsBackendMessage(t *testing.T) {
	backend := errors.New("404 RecordNotFound: Not found")
	err := NewGatewayError(backend)

	assert.Equal(t, "404 RecordNotFound: Not found", err.Error())
	assert.ErrorIs(t, err, backend)
	assert.True(t, HasCode(err, CodeGateway))
	assert.Equal(t, http.StatusBadGateway, ToDomainError(err).HTTPStatus)
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	domainErr := ToDomainError(errors.New("boom"))

	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	assert.Equal(t, "internal server error: boom", domainErr.Error())
	assert.Nil(t, ToDomainError(nil))
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NewNotFoundMessage("No agent found with name: Zed", nil))

	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeValidationFailed))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
}
