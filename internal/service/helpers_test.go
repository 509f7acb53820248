package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/cadet-admin-api/pkg/errors"
)

func assertStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, status, appErr.Status)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}
