package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// conditionKeywords are the only bare words a checked condition may contain
// besides field names
var conditionKeywords = map[string]struct{}{
	"AND": {}, "OR": {}, "NOT": {},
	"LIKE": {}, "IN": {}, "INCLUDES": {}, "EXCLUDES": {},
	"NULL": {}, "TRUE": {}, "FALSE": {},
}

var comparisonOperators = []string{"!=", "<>", "<=", ">=", "=", "<", ">"}

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenLiteral
	tokenOperator
	tokenOpen
	tokenClose
	tokenComma
)

type token struct {
	kind tokenKind
	text string
}

// fieldSet indexes field names case-insensitively, as SOQL does
func fieldSet(fields []string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}
	return set
}

// CheckCondition verifies that a WHERE condition from an untrusted caller
// references only the given fields.
//
// Accepted input is a flat comparison language: field names, the keywords
// AND, OR, NOT, LIKE, IN, INCLUDES, EXCLUDES, NULL, TRUE and FALSE, quoted
// strings, numbers and date literals, comparison operators, commas and
// balanced parentheses. Anything else, including relationship paths and
// nested SELECTs, is rejected with ErrInvalidQuery.
func CheckCondition(condition string, fields []string) error {
	tokens, err := tokenize(condition)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return fmt.Errorf("%w: empty WHERE condition", ErrInvalidQuery)
	}

	allowed := fieldSet(fields)
	depth := 0
	for _, t := range tokens {
		switch t.kind {
		case tokenIdent:
			if _, ok := conditionKeywords[strings.ToUpper(t.text)]; ok {
				continue
			}
			if _, ok := allowed[strings.ToLower(t.text)]; !ok {
				return fmt.Errorf("%w: %q is not a visible field", ErrInvalidQuery, t.text)
			}
		case tokenOpen:
			depth++
		case tokenClose:
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unbalanced parentheses in WHERE condition", ErrInvalidQuery)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unbalanced parentheses in WHERE condition", ErrInvalidQuery)
	}
	return nil
}

// CheckOrderBy verifies an ORDER BY expression from an untrusted caller. Each
// comma separated item must be a visible field optionally followed by ASC or
// DESC and NULLS FIRST or NULLS LAST.
func CheckOrderBy(expr string, fields []string) error {
	allowed := fieldSet(fields)

	for _, item := range strings.Split(expr, ",") {
		words := strings.Fields(item)
		if len(words) == 0 {
			return fmt.Errorf("%w: empty ORDER BY item", ErrInvalidQuery)
		}
		if _, ok := allowed[strings.ToLower(words[0])]; !ok {
			return fmt.Errorf("%w: %q is not a visible field", ErrInvalidQuery, words[0])
		}

		rest := words[1:]
		if len(rest) > 0 && (strings.EqualFold(rest[0], "ASC") || strings.EqualFold(rest[0], "DESC")) {
			rest = rest[1:]
		}
		if len(rest) == 2 && strings.EqualFold(rest[0], "NULLS") &&
			(strings.EqualFold(rest[1], "FIRST") || strings.EqualFold(rest[1], "LAST")) {
			rest = rest[2:]
		}
		if len(rest) > 0 {
			return fmt.Errorf("%w: unexpected %q in ORDER BY", ErrInvalidQuery, strings.Join(rest, " "))
		}
	}
	return nil
}

// ParseLimit parses a LIMIT value from an untrusted caller
func ParseLimit(limit string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(limit))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: LIMIT must be a non-negative integer, got %q", ErrInvalidQuery, limit)
	}
	return n, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r))
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// isLiteralPart covers numbers and date or datetime literals such as
// 2024-01-31T00:00:00Z
func isLiteralPart(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' || r == ':' || r == 'T' || r == 'Z'
}

func tokenize(s string) ([]token, error) {
	runes := []rune(s)
	var tokens []token

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: string(runes[start:i])})

		case (r >= '0' && r <= '9') || (r == '-' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9'):
			start := i
			i++
			for i < len(runes) && isLiteralPart(runes[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenLiteral, text: string(runes[start:i])})

		case r == '\'':
			start := i
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '\\' {
					i += 2
					continue
				}
				if runes[i] == '\'' {
					closed = true
					i++
					break
				}
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated string literal", ErrInvalidQuery)
			}
			tokens = append(tokens, token{kind: tokenLiteral, text: string(runes[start:i])})

		case r == '(':
			tokens = append(tokens, token{kind: tokenOpen, text: "("})
			i++

		case r == ')':
			tokens = append(tokens, token{kind: tokenClose, text: ")"})
			i++

		case r == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ","})
			i++

		default:
			op := matchOperator(runes[i:])
			if op == "" {
				return nil, fmt.Errorf("%w: unexpected %q in WHERE condition", ErrInvalidQuery, string(r))
			}
			tokens = append(tokens, token{kind: tokenOperator, text: op})
			i += len(op)
		}
	}
	return tokens, nil
}

func matchOperator(rest []rune) string {
	for _, op := range comparisonOperators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			return op
		}
	}
	return ""
}
