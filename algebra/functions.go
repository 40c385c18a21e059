package algebra

import (
	"context"
	"fmt"
	"strings"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/expression"
	"github.com/c360studio/semgraph/rdf"
)

// Built-in function names, matched case-insensitively.
const (
	FnStr       = "STR"
	FnLang      = "LANG"
	FnDatatype  = "DATATYPE"
	FnBound     = "BOUND"
	FnIsIRI     = "ISIRI"
	FnIsBlank   = "ISBLANK"
	FnIsLiteral = "ISLITERAL"
	FnIsNumeric = "ISNUMERIC"
	FnSameTerm  = "SAMETERM"

	FnContains  = "CONTAINS"
	FnStrStarts = "STRSTARTS"
	FnStrEnds   = "STRENDS"
	FnStrLen    = "STRLEN"
	FnUCase     = "UCASE"
	FnLCase     = "LCASE"
	FnSubStr    = "SUBSTR"
	FnStrBefore = "STRBEFORE"
	FnStrAfter  = "STRAFTER"
	FnConcat    = "CONCAT"
	FnReplace   = "REPLACE"
	FnRegex     = "REGEX"

	FnAbs   = "ABS"
	FnRound = "ROUND"
	FnCeil  = "CEIL"
	FnFloor = "FLOOR"
	FnRand  = "RAND"

	FnYear            = "YEAR"
	FnMonth           = "MONTH"
	FnDay             = "DAY"
	FnHours           = "HOURS"
	FnMinutes         = "MINUTES"
	FnSeconds         = "SECONDS"
	FnTimezone        = "TIMEZONE"
	FnNow             = "NOW"
	FnDateDiffMinutes = "DATEDIFFMINUTES"
	FnDateDiffHours   = "DATEDIFFHOURS"

	FnCoalesce = "COALESCE"
	FnIf       = "IF"

	FnToInteger  = "INTEGER"
	FnToDecimal  = "DECIMAL"
	FnToDateTime = "DATETIME"
)

// evaluateFunction dispatches a function call node. BOUND, COALESCE, and IF
// are special forms that control evaluation of their own arguments;
// everything else evaluates all arguments first.
func (e *FilterEvaluator) evaluateFunction(ctx context.Context, node FunctionCall, solution *rdf.SolutionMapping) (any, error) {
	name := strings.ToUpper(node.Name)

	switch name {
	case FnBound:
		// BOUND inspects the binding itself, so its argument must be a
		// variable node and is never evaluated.
		if len(node.Args) != 1 {
			return nil, arityError(name, 1, len(node.Args))
		}
		variable, ok := node.Args[0].(Variable)
		if !ok {
			return nil, errors.WrapInvalid(errors.ErrInvalidPattern, "algebra", "evaluateFunction",
				"BOUND argument must be a variable")
		}
		return solution.Bound(variable.Name), nil

	case FnCoalesce:
		// First argument that evaluates without error and is bound wins.
		for _, arg := range node.Args {
			v, err := e.Evaluate(ctx, arg, solution)
			if err == nil && v != nil {
				return v, nil
			}
			if err != nil && errors.IsFatal(err) {
				return nil, err
			}
		}
		return nil, errors.WrapInvalid(errors.ErrUnboundVariable, "algebra", "evaluateFunction",
			"COALESCE: no argument evaluated to a bound value")

	case FnIf:
		if len(node.Args) != 3 {
			return nil, arityError(name, 3, len(node.Args))
		}
		condition, err := e.EvaluateBool(ctx, node.Args[0], solution)
		if err != nil {
			return nil, err
		}
		if condition {
			return e.Evaluate(ctx, node.Args[1], solution)
		}
		return e.Evaluate(ctx, node.Args[2], solution)
	}

	args := make([]any, len(node.Args))
	for i, arg := range node.Args {
		v, err := e.Evaluate(ctx, arg, solution)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return applyFunction(name, args)
}

// applyFunction invokes a non-special-form built-in over already-evaluated
// arguments.
func applyFunction(name string, args []any) (any, error) {
	switch name {
	case FnStr:
		term, err := oneTerm(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Str(term)
	case FnLang:
		term, err := oneTerm(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Lang(term)
	case FnDatatype:
		term, err := oneTerm(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Datatype(term)
	case FnIsIRI:
		term, err := oneTerm(name, args)
		if err != nil {
			return nil, err
		}
		return expression.IsIRI(term)
	case FnIsBlank:
		term, err := oneTerm(name, args)
		if err != nil {
			return nil, err
		}
		return expression.IsBlank(term)
	case FnIsLiteral:
		term, err := oneTerm(name, args)
		if err != nil {
			return nil, err
		}
		return expression.IsLiteral(term)
	case FnIsNumeric:
		term, err := oneTerm(name, args)
		if err != nil {
			return nil, err
		}
		return expression.IsNumeric(term)
	case FnSameTerm:
		a, b, err := twoTerms(name, args)
		if err != nil {
			return nil, err
		}
		return expression.SameTerm(a, b)

	case FnContains:
		s, sub, err := twoStrings(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Contains(s, sub), nil
	case FnStrStarts:
		s, prefix, err := twoStrings(name, args)
		if err != nil {
			return nil, err
		}
		return expression.StrStarts(s, prefix), nil
	case FnStrEnds:
		s, suffix, err := twoStrings(name, args)
		if err != nil {
			return nil, err
		}
		return expression.StrEnds(s, suffix), nil
	case FnStrLen:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.StrLen(s), nil
	case FnUCase:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.UCase(s), nil
	case FnLCase:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.LCase(s), nil
	case FnSubStr:
		if len(args) != 2 && len(args) != 3 {
			return nil, arityError(name, 3, len(args))
		}
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		start, err := asInt(args[1])
		if err != nil {
			return nil, err
		}
		length := -1
		if len(args) == 3 {
			length, err = asInt(args[2])
			if err != nil {
				return nil, err
			}
		}
		return expression.SubStr(s, start, length), nil
	case FnStrBefore:
		s, needle, err := twoStrings(name, args)
		if err != nil {
			return nil, err
		}
		return expression.StrBefore(s, needle), nil
	case FnStrAfter:
		s, needle, err := twoStrings(name, args)
		if err != nil {
			return nil, err
		}
		return expression.StrAfter(s, needle), nil
	case FnConcat:
		parts := make([]string, len(args))
		for i, arg := range args {
			s, err := asString(arg)
			if err != nil {
				return nil, err
			}
			parts[i] = s
		}
		return expression.Concat(parts...), nil
	case FnReplace:
		if len(args) != 3 {
			return nil, arityError(name, 3, len(args))
		}
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		pattern, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		replacement, err := asString(args[2])
		if err != nil {
			return nil, err
		}
		return expression.Replace(s, pattern, replacement)
	case FnRegex:
		if len(args) != 2 && len(args) != 3 {
			return nil, arityError(name, 3, len(args))
		}
		s, err := asString(args[0])
		if err != nil {
			return nil, err
		}
		pattern, err := asString(args[1])
		if err != nil {
			return nil, err
		}
		flags := ""
		if len(args) == 3 {
			flags, err = asString(args[2])
			if err != nil {
				return nil, err
			}
		}
		return expression.Regex(s, pattern, flags)

	case FnAbs:
		x, err := oneFloat(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Abs(x), nil
	case FnRound:
		x, err := oneFloat(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Round(x), nil
	case FnCeil:
		x, err := oneFloat(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Ceil(x), nil
	case FnFloor:
		x, err := oneFloat(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Floor(x), nil
	case FnRand:
		if len(args) != 0 {
			return nil, arityError(name, 0, len(args))
		}
		return expression.Rand(), nil

	case FnYear:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Year(s)
	case FnMonth:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Month(s)
	case FnDay:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Day(s)
	case FnHours:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Hours(s)
	case FnMinutes:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Minutes(s)
	case FnSeconds:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Seconds(s)
	case FnTimezone:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.Timezone(s)
	case FnNow:
		if len(args) != 0 {
			return nil, arityError(name, 0, len(args))
		}
		return expression.Now(), nil
	case FnDateDiffMinutes:
		from, to, err := twoStrings(name, args)
		if err != nil {
			return nil, err
		}
		return expression.DateDiffMinutes(from, to)
	case FnDateDiffHours:
		from, to, err := twoStrings(name, args)
		if err != nil {
			return nil, err
		}
		return expression.DateDiffHours(from, to)

	case FnToInteger:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.AsInteger(s)
	case FnToDecimal:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.AsDecimal(s)
	case FnToDateTime:
		s, err := oneString(name, args)
		if err != nil {
			return nil, err
		}
		return expression.AsDateTime(s)

	default:
		return nil, errors.WrapInvalid(errors.ErrUnknownFunction, "algebra", "applyFunction",
			fmt.Sprintf("unknown function %q", name))
	}
}

// Argument helpers

func arityError(name string, want, got int) error {
	return errors.WrapInvalid(errors.ErrInvalidPattern, "algebra", "applyFunction",
		fmt.Sprintf("%s: expected %d argument(s), got %d", name, want, got))
}

func oneTerm(name string, args []any) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, arityError(name, 1, len(args))
	}
	return asTerm(args[0])
}

func twoTerms(name string, args []any) (rdf.Term, rdf.Term, error) {
	if len(args) != 2 {
		return nil, nil, arityError(name, 2, len(args))
	}
	a, err := asTerm(args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := asTerm(args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func oneString(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", arityError(name, 1, len(args))
	}
	return asString(args[0])
}

func twoStrings(name string, args []any) (string, string, error) {
	if len(args) != 2 {
		return "", "", arityError(name, 2, len(args))
	}
	a, err := asString(args[0])
	if err != nil {
		return "", "", err
	}
	b, err := asString(args[1])
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func oneFloat(name string, args []any) (float64, error) {
	if len(args) != 1 {
		return 0, arityError(name, 1, len(args))
	}
	return asFloat(args[0])
}

func asTerm(v any) (rdf.Term, error) {
	return valueToTerm(v)
}

func asString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case rdf.Term:
		return expression.Str(val)
	case int:
		return fmt.Sprintf("%d", val), nil
	case float64:
		return fmt.Sprintf("%v", val), nil
	case bool:
		return fmt.Sprintf("%t", val), nil
	default:
		return "", errors.WrapInvalid(errors.ErrInvalidTerm, "algebra", "asString",
			fmt.Sprintf("value %T has no string form", v))
	}
}

func asInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		return int(val), nil
	case rdf.Literal:
		n, err := val.NumericValue()
		if err != nil {
			return 0, err
		}
		return int(n), nil
	default:
		return 0, errors.WrapInvalid(errors.ErrInvalidTerm, "algebra", "asInt",
			fmt.Sprintf("value %T is not an integer", v))
	}
}

func asFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case rdf.Literal:
		return val.NumericValue()
	default:
		return 0, errors.WrapInvalid(errors.ErrInvalidTerm, "algebra", "asFloat",
			fmt.Sprintf("value %T is not numeric", v))
	}
}
