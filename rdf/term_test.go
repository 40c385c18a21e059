package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/vocabulary"
)

func TestNewIRI(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid http IRI", "http://example.org/Task", false},
		{"valid urn", "urn:uuid:1234", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"contains space", "http://example.org/a b", true},
		{"contains angle bracket", "http://example.org/<a>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iri, err := NewIRI(tt.value)
			if tt.shouldErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalid(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, iri.Value())
			assert.Equal(t, "<"+tt.value+">", iri.String())
		})
	}
}

func TestIRI_Equality(t *testing.T) {
	a := MustIRI("http://example.org/a")
	b := MustIRI("http://example.org/a")
	c := MustIRI("http://example.org/c")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(NewLiteral("http://example.org/a")))
}

func TestBlankNode(t *testing.T) {
	bn, err := NewBlankNode("b0")
	require.NoError(t, err)
	assert.Equal(t, "_:b0", bn.String())

	other, _ := NewBlankNode("b0")
	assert.True(t, bn.Equals(other))

	_, err = NewBlankNode("")
	assert.Error(t, err)
}

func TestLiteral_ValueEqualityWithNumericCoercion(t *testing.T) {
	integer := NewTypedLiteral("1", MustIRI(vocabulary.XSDInteger))
	decimal := NewTypedLiteral("1.0", MustIRI(vocabulary.XSDDecimal))

	// Value equality coerces numerics across datatypes.
	assert.True(t, integer.Equals(decimal))

	// sameTerm requires exact lexical, datatype, and language identity.
	assert.False(t, SameTerm(integer, decimal))
	assert.True(t, SameTerm(integer, NewTypedLiteral("1", MustIRI(vocabulary.XSDInteger))))
}

func TestLiteral_NoPlainStringCoercionForSameTerm(t *testing.T) {
	plain := NewLiteral("x")
	typed := NewTypedLiteral("x", MustIRI(vocabulary.XSDString))

	assert.False(t, SameTerm(plain, typed))
}

func TestLiteral_LanguageTags(t *testing.T) {
	en := NewLangLiteral("hello", "en")
	de := NewLangLiteral("hello", "de")

	assert.Equal(t, `"hello"@en`, en.String())
	assert.False(t, SameTerm(en, de))
	assert.False(t, en.Equals(de))
	assert.True(t, en.Equals(NewLangLiteral("hello", "en")))
}

func TestLiteral_NumericValue(t *testing.T) {
	lit := NewTypedLiteral("42.5", MustIRI(vocabulary.XSDDouble))
	v, err := lit.NumericValue()
	require.NoError(t, err)
	assert.Equal(t, 42.5, v)

	plain := NewLiteral("42.5")
	_, err = plain.NumericValue()
	assert.Error(t, err)

	bad := NewTypedLiteral("not-a-number", MustIRI(vocabulary.XSDInteger))
	_, err = bad.NumericValue()
	assert.Error(t, err)
}

func TestLiteral_StringEscaping(t *testing.T) {
	lit := NewLiteral("line1\nline2 \"quoted\"")
	assert.Equal(t, `"line1\nline2 \"quoted\""`, lit.String())
}
