package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClass_String(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}

func TestWrap_Format(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "TripleStore", "Add", "index update")
	require.Error(t, err)
	assert.Equal(t, "TripleStore.Add: index update failed: boom", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.NoError(t, Wrap(nil, "c", "m", "a"))
	assert.NoError(t, WrapTransient(nil, "c", "m", "a"))
	assert.NoError(t, WrapInvalid(nil, "c", "m", "a"))
	assert.NoError(t, WrapFatal(nil, "c", "m", "a"))
}

func TestClassifiedError_Unwrap(t *testing.T) {
	err := WrapInvalid(ErrParsingFailed, "TripleStore", "Add", "parse term")

	var ce *ClassifiedError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, ErrorInvalid, ce.Class)
	assert.Equal(t, "TripleStore", ce.Component)
	assert.True(t, stderrors.Is(err, ErrParsingFailed))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		class ErrorClass
	}{
		{"parse failure is invalid", ErrParsingFailed, ErrorInvalid},
		{"invalid regex is invalid", ErrInvalidRegex, ErrorInvalid},
		{"invalid date is invalid", ErrInvalidDate, ErrorInvalid},
		{"missing evaluator is fatal", ErrExistsEvaluatorMissing, ErrorFatal},
		{"invalid config is fatal", ErrInvalidConfig, ErrorFatal},
		{"rate limited is transient", ErrRateLimited, ErrorTransient},
		{"timeout is transient", ErrQueryTimeout, ErrorTransient},
		{"unknown defaults to transient", stderrors.New("mystery"), ErrorTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.class, Classify(tt.err))
		})
	}
}

func TestClassification_WrappedSentinels(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrQueryTooComplex)
	assert.True(t, IsSecurity(err))

	err = WrapInvalid(ErrInvalidTriple, "TripleStore", "Add", "validate")
	assert.True(t, IsInvalid(err))
	assert.False(t, IsFatal(err))
}

func TestIsSecurity(t *testing.T) {
	for _, sentinel := range []error{
		ErrUnauthorizedOperation,
		ErrInjectionDetected,
		ErrQueryTooComplex,
		ErrRateLimited,
		ErrEmergencyMode,
	} {
		assert.True(t, IsSecurity(sentinel), sentinel.Error())
	}
	assert.False(t, IsSecurity(ErrParsingFailed))
	assert.False(t, IsSecurity(nil))
}
