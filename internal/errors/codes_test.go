package errors_test

import (
	"fmt"
	"testing"

	"codeberg.org/mutker/hostwatch/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	errFactory := errors.New()

	assert.True(t, errors.IsTransient(errFactory.New(errors.ErrCollectMetrics)))
	assert.True(t, errors.IsTransient(errFactory.New(errors.ErrNotifySend)))
	assert.True(t, errors.IsTransient(errFactory.Wrap(errors.ErrNotifyStatus, fmt.Errorf("status 500"))))

	assert.False(t, errors.IsTransient(errFactory.New(errors.ErrInvalidConfig)))
	assert.False(t, errors.IsTransient(errFactory.New(errors.ErrLogSinkFailed)))

	// Untyped errors must never terminate a loop.
	assert.True(t, errors.IsTransient(fmt.Errorf("unexpected")))
}

func TestErrorCarriesCodeAndData(t *testing.T) {
	errFactory := errors.New()

	err := errFactory.WithData(errors.ErrNotifyStatus, struct{ Status int }{Status: 500})
	assert.Equal(t, errors.ErrNotifyStatus, err.Code())
	assert.Contains(t, err.Error(), "messaging backend")
	assert.Contains(t, err.Error(), "500")

	wrapped := errFactory.Wrap(errors.ErrCollectMetrics, fmt.Errorf("cpu: no data"))
	assert.ErrorContains(t, wrapped, "cpu: no data")
}
