package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := NotFound("idea")
	wrapped := Wrap(base, "lookup failed")

	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.Equal(t, "lookup failed: idea not found", wrapped.Error())
	assert.True(t, Is(wrapped, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrapf(stderrors.New("boom"), "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "step 2: boom", err.Error())
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidInput("bad count"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
}

func TestConstructorsCarryCause(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")

	db := DatabaseError("idea store unavailable", cause)
	assert.Equal(t, CodeDatabaseError, GetCode(db))
	assert.Equal(t, "idea store unavailable: dial tcp: refused", db.Error())
	assert.ErrorIs(t, db, cause)

	ext := ExternalServiceError("gemini", cause)
	assert.Equal(t, CodeExternalService, GetCode(ext))
	assert.Equal(t, "gemini service error: dial tcp: refused", ext.Error())
	assert.ErrorIs(t, ext, cause)
}
