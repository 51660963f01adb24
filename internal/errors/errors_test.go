package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := ReadError("a.xlsx", stderrors.New("boom"))
	wrapped := Wrapf(inner, "processing %s", "a.xlsx")

	assert.Equal(t, CodeReadError, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "processing a.xlsx")
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrap(stderrors.New("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "context"))
}

func TestGetCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", WithCode(CodeParseError, stderrors.New("bad")))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeParseError, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
