package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCode(t *testing.T) {
	base := MalformedSource("population.csv", `year column "abc" is not an integer`)
	wrapped := Wrapf(base, "tidy %s", "population")

	assert.Equal(t, CodeMalformedSource, GetCode(wrapped))
	assert.True(t, Is(wrapped, CodeMalformedSource))
	assert.Contains(t, wrapped.Error(), "tidy population")
	assert.Contains(t, wrapped.Error(), `"abc"`)
}

func TestWrapForeignError(t *testing.T) {
	err := Wrap(os.ErrNotExist, "open")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", SourceNotFound("gni.csv", os.ErrNotExist))
	assert.Equal(t, CodeSourceNotFound, GetCode(err))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
