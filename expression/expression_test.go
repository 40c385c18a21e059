package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/vocabulary"
)

func TestTermPredicates(t *testing.T) {
	iri := rdf.MustIRI("http://example.org/alice")
	blank, err := rdf.NewBlankNode("b1")
	require.NoError(t, err)
	plain := rdf.NewLiteral("hello")
	tagged := rdf.NewLangLiteral("bonjour", "fr")
	typed := rdf.NewTypedLiteral("42", rdf.MustIRI(vocabulary.XSDInteger))

	t.Run("str", func(t *testing.T) {
		s, err := Str(iri)
		require.NoError(t, err)
		assert.Equal(t, "http://example.org/alice", s)

		s, err = Str(blank)
		require.NoError(t, err)
		assert.Equal(t, "b1", s)

		s, err = Str(tagged)
		require.NoError(t, err)
		assert.Equal(t, "bonjour", s)

		_, err = Str(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnboundVariable)
	})

	t.Run("lang", func(t *testing.T) {
		lang, err := Lang(tagged)
		require.NoError(t, err)
		assert.Equal(t, "fr", lang)

		lang, err = Lang(plain)
		require.NoError(t, err)
		assert.Empty(t, lang)

		lang, err = Lang(iri)
		require.NoError(t, err)
		assert.Empty(t, lang)
	})

	t.Run("datatype", func(t *testing.T) {
		dt, err := Datatype(typed)
		require.NoError(t, err)
		assert.Equal(t, vocabulary.XSDInteger, dt)

		dt, err = Datatype(plain)
		require.NoError(t, err)
		assert.Equal(t, vocabulary.XSDString, dt)

		dt, err = Datatype(tagged)
		require.NoError(t, err)
		assert.Equal(t, vocabulary.RDFLangString, dt)
	})

	t.Run("bound", func(t *testing.T) {
		assert.True(t, Bound(iri))
		assert.False(t, Bound(nil))
	})

	t.Run("kind checks", func(t *testing.T) {
		isIRI, err := IsIRI(iri)
		require.NoError(t, err)
		assert.True(t, isIRI)

		isBlank, err := IsBlank(blank)
		require.NoError(t, err)
		assert.True(t, isBlank)

		isLit, err := IsLiteral(plain)
		require.NoError(t, err)
		assert.True(t, isLit)

		isLit, err = IsLiteral(iri)
		require.NoError(t, err)
		assert.False(t, isLit)

		_, err = IsIRI(nil)
		require.Error(t, err)
	})

	t.Run("isNumeric", func(t *testing.T) {
		numeric, err := IsNumeric(typed)
		require.NoError(t, err)
		assert.True(t, numeric)

		numeric, err = IsNumeric(plain)
		require.NoError(t, err)
		assert.False(t, numeric)
	})

	t.Run("sameTerm", func(t *testing.T) {
		intOne := rdf.NewTypedLiteral("1", rdf.MustIRI(vocabulary.XSDInteger))
		decOne := rdf.NewTypedLiteral("1.0", rdf.MustIRI(vocabulary.XSDDecimal))

		same, err := SameTerm(intOne, decOne)
		require.NoError(t, err)
		assert.False(t, same, "sameTerm must not apply numeric coercion")

		same, err = SameTerm(intOne, rdf.NewTypedLiteral("1", rdf.MustIRI(vocabulary.XSDInteger)))
		require.NoError(t, err)
		assert.True(t, same)
	})
}

func TestStringFunctions(t *testing.T) {
	assert.True(t, Contains("hello world", "lo wo"))
	assert.False(t, Contains("hello", "xyz"))
	assert.True(t, StrStarts("hello", "he"))
	assert.True(t, StrEnds("hello", "lo"))
	assert.Equal(t, 5, StrLen("hello"))
	assert.Equal(t, 5, StrLen("héllo"), "length is counted in code points, not bytes")
	assert.Equal(t, "HELLO", UCase("hello"))
	assert.Equal(t, "hello", LCase("HELLO"))
	assert.Equal(t, "helloworld", Concat("hello", "world"))
	assert.Empty(t, Concat())
}

func TestSubStr(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		start  int
		length int
		want   string
	}{
		{"middle", "hello", 2, 3, "ell"},
		{"to end with negative length", "hello", 3, -1, "llo"},
		{"start before beginning clamps", "hello", 0, 2, "he"},
		{"start past end", "hello", 10, 3, ""},
		{"length past end clamps", "hello", 4, 10, "lo"},
		{"zero length", "hello", 2, 0, ""},
		{"multibyte", "héllo", 2, 2, "él"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubStr(tt.s, tt.start, tt.length))
		})
	}
}

func TestStrBeforeAfter(t *testing.T) {
	assert.Equal(t, "abc", StrBefore("abc#def", "#"))
	assert.Equal(t, "def", StrAfter("abc#def", "#"))
	assert.Empty(t, StrBefore("abcdef", "#"))
	assert.Empty(t, StrAfter("abcdef", "#"))
	assert.Empty(t, StrBefore("#abc", "#"))
	assert.Equal(t, "abc", StrAfter("#abc", "#"))
}

func TestRegex(t *testing.T) {
	clearRegexCache()

	matched, err := Regex("Hello World", "^hello", "i")
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = Regex("Hello World", "^hello", "")
	require.NoError(t, err)
	assert.False(t, matched)

	_, err = Regex("input", "[unclosed", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidRegex)

	_, err = Regex("input", `(a+)+b`, "")
	require.Error(t, err, "ReDoS-prone pattern must be rejected")

	// Compiled patterns are cached by pattern and flags.
	before := regexCacheSize()
	_, err = Regex("again", "^hello", "i")
	require.NoError(t, err)
	assert.Equal(t, before, regexCacheSize())
}

func TestReplace(t *testing.T) {
	out, err := Replace("a1b2c3", `\d`, "#")
	require.NoError(t, err)
	assert.Equal(t, "a#b#c#", out)

	_, err = Replace("input", "[bad", "#")
	require.Error(t, err)
}

func TestNumericFunctions(t *testing.T) {
	assert.Equal(t, 2.5, Abs(-2.5))
	assert.Equal(t, 3.0, Round(2.5))
	assert.Equal(t, -3.0, Round(-2.5))
	assert.Equal(t, 3.0, Ceil(2.1))
	assert.Equal(t, 2.0, Floor(2.9))

	r := Rand()
	assert.GreaterOrEqual(t, r, 0.0)
	assert.Less(t, r, 1.0)
}

func TestDateTimeComponents(t *testing.T) {
	const ts = "2025-03-15T14:30:45Z"

	year, err := Year(ts)
	require.NoError(t, err)
	assert.Equal(t, 2025, year)

	month, err := Month(ts)
	require.NoError(t, err)
	assert.Equal(t, 3, month)

	day, err := Day(ts)
	require.NoError(t, err)
	assert.Equal(t, 15, day)

	hours, err := Hours(ts)
	require.NoError(t, err)
	assert.Equal(t, 14, hours)

	minutes, err := Minutes(ts)
	require.NoError(t, err)
	assert.Equal(t, 30, minutes)

	seconds, err := Seconds(ts)
	require.NoError(t, err)
	assert.Equal(t, 45.0, seconds)

	tz, err := Timezone(ts)
	require.NoError(t, err)
	assert.Equal(t, "Z", tz)

	tz, err = Timezone("2025-03-15T14:30:45+05:30")
	require.NoError(t, err)
	assert.Equal(t, "+05:30", tz)

	// Date-only lexical forms parse too.
	year, err = Year("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)

	_, err = Year("not-a-date")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidDate)
}

func TestDateDiff(t *testing.T) {
	minutes, err := DateDiffMinutes("2025-01-01T00:00:00Z", "2025-01-01T01:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 90.0, minutes)

	hours, err := DateDiffHours("2025-01-01T00:00:00Z", "2025-01-01T01:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 1.5, hours)

	// Rounded to two decimals.
	hours, err = DateDiffHours("2025-01-01T00:00:00Z", "2025-01-01T00:20:00Z")
	require.NoError(t, err)
	assert.Equal(t, 0.33, hours)

	// Differences are absolute regardless of argument order.
	minutes, err = DateDiffMinutes("2025-01-01T01:30:00Z", "2025-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 90.0, minutes)

	_, err = DateDiffMinutes("bad", "2025-01-01T00:00:00Z")
	require.Error(t, err)
}

func TestConstructors(t *testing.T) {
	lit, err := AsInteger("42")
	require.NoError(t, err)
	dt, ok := lit.Datatype()
	require.True(t, ok)
	assert.Equal(t, vocabulary.XSDInteger, dt.Value())

	_, err = AsInteger("4.2")
	require.Error(t, err)

	lit, err = AsDecimal("4.2")
	require.NoError(t, err)
	dt, ok = lit.Datatype()
	require.True(t, ok)
	assert.Equal(t, vocabulary.XSDDecimal, dt.Value())

	lit, err = AsDateTime("2025-01-01T00:00:00Z")
	require.NoError(t, err)
	dt, ok = lit.Datatype()
	require.True(t, ok)
	assert.Equal(t, vocabulary.XSDDateTime, dt.Value())

	_, err = AsDateTime("not-a-date")
	require.Error(t, err)
}

func TestConditionals(t *testing.T) {
	a := rdf.NewLiteral("a")
	b := rdf.NewLiteral("b")

	assert.Equal(t, rdf.Term(a), Coalesce(nil, a, b))
	assert.Equal(t, rdf.Term(a), Coalesce(a))
	assert.Nil(t, Coalesce(nil, nil))
	assert.Nil(t, Coalesce())

	assert.Equal(t, rdf.Term(a), If(true, a, b))
	assert.Equal(t, rdf.Term(b), If(false, a, b))
}

func TestCompare(t *testing.T) {
	intOne := rdf.NewTypedLiteral("1", rdf.MustIRI(vocabulary.XSDInteger))
	decOne := rdf.NewTypedLiteral("1.0", rdf.MustIRI(vocabulary.XSDDecimal))
	intTwo := rdf.NewTypedLiteral("2", rdf.MustIRI(vocabulary.XSDInteger))

	tests := []struct {
		name     string
		a, b     rdf.Term
		operator string
		want     bool
	}{
		{"numeric coercion across datatypes", intOne, decOne, OpEqual, true},
		{"numeric less than", intOne, intTwo, OpLessThan, true},
		{"numeric greater or equal", intTwo, intOne, OpGreaterThanEqual, true},
		{"numeric not equal", intOne, intTwo, OpNotEqual, true},
		{"string ordering", rdf.NewLiteral("apple"), rdf.NewLiteral("banana"), OpLessThan, true},
		{"iri equality", rdf.MustIRI("http://example.org/a"), rdf.MustIRI("http://example.org/a"), OpEqual, true},
		{
			"datetime ordering",
			rdf.NewTypedLiteral("2025-01-01T00:00:00Z", rdf.MustIRI(vocabulary.XSDDateTime)),
			rdf.NewTypedLiteral("2025-06-01T00:00:00Z", rdf.MustIRI(vocabulary.XSDDateTime)),
			OpLessThan,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b, tt.operator)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown operator", func(t *testing.T) {
		_, err := Compare(intOne, intTwo, "<>")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownOperator)
	})

	t.Run("unbound argument", func(t *testing.T) {
		_, err := Compare(nil, intOne, OpEqual)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnboundVariable)
	})
}
