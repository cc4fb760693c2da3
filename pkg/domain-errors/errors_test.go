package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCodeWalksChain(t *testing.T) {
	cause := errors.New("timeout")
	inner := Wrap(cause, CodeUnavailable, "backend down")
	outer := Wrap(fmt.Errorf("refresh: %w", inner), CodeInternal, "refresh failed")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeUnavailable))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.ErrorIs(t, outer, cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("ctx: %w", New(CodeNotFound, "missing"))))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "shown", New(CodeValidation, "shown").Error())
	assert.Equal(t, "cause", Wrap(errors.New("cause"), CodeInternal, "").Error())
	assert.Equal(t, "shown", MessageOf(fmt.Errorf("x: %w", New(CodeConflict, "shown"))))
}
