package trap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("oob")
	tr := Wrap(KindMemoryOOB, "spawn:fn", cause)

	assert.ErrorIs(t, tr, cause)
	assert.Contains(t, tr.Error(), "memory-oob")
	assert.Contains(t, tr.Error(), "spawn:fn")
}

func TestTrapWithoutCause(t *testing.T) {
	t.Parallel()

	tr := New(KindUnknownResource, "drop_config")
	assert.Nil(t, tr.Unwrap())
	assert.Contains(t, tr.Error(), "unknown-resource")
}

func TestRecoverableUnwrapAndAs(t *testing.T) {
	t.Parallel()

	cause := errors.New("bad range")
	err := error(NewRecoverable(RecoverableSemver, cause))

	var rec *Recoverable
	require.ErrorAs(t, err, &rec)
	assert.Equal(t, RecoverableSemver, rec.Kind)
	assert.ErrorIs(t, err, cause)
}

func TestExitErrorFormatting(t *testing.T) {
	t.Parallel()

	withCause := &ExitError{Reason: ExitTrapped, Err: errors.New("divide by zero")}
	assert.Contains(t, withCause.Error(), "trapped")
	assert.Contains(t, withCause.Error(), "divide by zero")

	bare := &ExitError{Reason: ExitNormal}
	assert.Equal(t, "process exited (normal)", bare.Error())
}
