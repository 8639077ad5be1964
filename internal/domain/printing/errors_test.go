package printing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := NewError(ErrCodeNoPrinterAvailable, "no printers installed", nil)

	assert.ErrorIs(t, err, ErrNoPrinterAvailable)
	assert.NotErrorIs(t, err, ErrDispatchFailed)

	wrapped := fmt.Errorf("print receipt: %w", err)
	assert.ErrorIs(t, wrapped, ErrNoPrinterAvailable)
}

func TestError_Message(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewError(ErrCodeDispatchFailed, "all delivery methods failed", cause)

	assert.Equal(t, "all delivery methods failed: exit status 1", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestRootCause(t *testing.T) {
	inner := errors.New("chrome crashed")
	err := NewError(ErrCodeRenderFailed, "PDF rendering failed",
		NewError(ErrCodeRenderFailed, "print to pdf", inner))

	assert.Equal(t, "chrome crashed", RootCause(err))
	assert.Equal(t, "plain", RootCause(errors.New("plain")))
	assert.Equal(t, "no printer available", RootCause(ErrNoPrinterAvailable))
	assert.Empty(t, RootCause(nil))
}
