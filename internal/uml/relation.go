package uml

import (
	"regexp"
	"strings"
)

// relationSymbols is ordered longest first; at any position the first symbol
// that matches wins.
var relationSymbols = []string{
	"<|--", "--|>", "<|..", "..|>",
	"*--", "--*", "o--", "--o",
	"<..", "..>", "-->", "<--",
	"--", "..",
}

var (
	relationHintRe   = regexp.MustCompile(`[<>|o*.\-]`)
	cardinalityTokRe = regexp.MustCompile(`^[0-9.*]+$`)
	digitRe          = regexp.MustCompile(`[0-9]`)
)

// ParseRelation recognises one relation line such as
//
//	Person "1" *-- "1..*" Address : lives at
//
// and reports false for anything else.
func ParseRelation(line string) (Relation, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !relationHintRe.MatchString(trimmed) {
		return Relation{}, false
	}

	symbol, index, ok := findRelationSymbol(trimmed)
	if !ok {
		return Relation{}, false
	}

	left := strings.TrimSpace(trimmed[:index])
	right := strings.TrimSpace(trimmed[index+len(symbol):])
	if left == "" || right == "" {
		return Relation{}, false
	}
	// right side label: `A -- B : owns`
	if i := indexOutsideQuotes(right, ':'); i >= 0 {
		right = strings.TrimSpace(right[:i])
	}

	from, fromCard, ok := parseEndpoint(left)
	if !ok {
		return Relation{}, false
	}
	to, toCard, ok := parseEndpoint(right)
	if !ok {
		return Relation{}, false
	}

	return Relation{
		From:            from,
		To:              to,
		Kind:            KindOfSymbol(symbol),
		Symbol:          symbol,
		FromCardinality: ParseCardinality(fromCard),
		ToCardinality:   ParseCardinality(toCard),
	}, true
}

// findRelationSymbol scans left to right outside quoted spans.
func findRelationSymbol(line string) (string, int, bool) {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		if line[i] == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		for _, sym := range relationSymbols {
			if !strings.HasPrefix(line[i:], sym) {
				continue
			}
			if sym == ".." && isCardinalityDots(line, i) {
				continue
			}
			return sym, i, true
		}
	}
	return "", 0, false
}

// isCardinalityDots reports whether the `..` at i is a range separator like
// the one in 1..* rather than a dotted arrow.
func isCardinalityDots(line string, i int) bool {
	isCard := func(b byte) bool { return b == '*' || (b >= '0' && b <= '9') }
	if i == 0 || i+2 >= len(line) {
		return false
	}
	return isCard(line[i-1]) && isCard(line[i+2])
}

func indexOutsideQuotes(s string, sep byte) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuotes = !inQuotes
		case s[i] == sep && !inQuotes:
			return i
		}
	}
	return -1
}

// parseEndpoint splits `"1..*" Address` into the name and raw cardinality.
// The last non-cardinality token is the name.
func parseEndpoint(segment string) (name, cardinality string, ok bool) {
	for _, tok := range splitTokens(segment) {
		switch {
		case len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"':
			cardinality = strings.TrimSpace(tok[1 : len(tok)-1])
		case tok == "*":
			cardinality = tok
		case cardinalityTokRe.MatchString(tok) && digitRe.MatchString(tok):
			cardinality = tok
		default:
			name = tok
		}
	}
	return name, cardinality, name != ""
}

// splitTokens splits on whitespace but keeps "quoted spans" whole.
func splitTokens(s string) []string {
	var out []string
	var buf []rune
	inDouble := false

	flush := func() {
		if len(buf) > 0 {
			out = append(out, string(buf))
			buf = buf[:0]
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inDouble = !inDouble
			buf = append(buf, r)
		case (r == ' ' || r == '\t') && !inDouble:
			flush()
		default:
			buf = append(buf, r)
		}
	}
	flush()
	return out
}

// KindOfSymbol maps a relation symbol to its kind.
func KindOfSymbol(symbol string) RelationKind {
	has := func(parts ...string) bool {
		for _, p := range parts {
			if strings.Contains(symbol, p) {
				return true
			}
		}
		return false
	}
	switch {
	case has("<|--", "--|>"):
		return RelationInheritance
	case has("*--", "--*"):
		return RelationComposition
	case has("o--", "--o"):
		return RelationAggregation
	case has("<..", "..>", "..|>", "<|.."):
		return RelationDependency
	case has("--", ".."):
		return RelationAssociation
	default:
		return RelationUnknown
	}
}
