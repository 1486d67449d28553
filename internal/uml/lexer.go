package uml

import "unicode"

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokSpace
	tokLBrace
	tokRBrace
	tokQuoted
	tokOther
)

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset of the token in the source
}

// lex splits text into identifiers, whitespace runs, braces, quoted spans and
// single punctuation runes. A quoted span never crosses a line: an unmatched
// quote is emitted as tokOther so the rest of the text keeps its structure.
func lex(text string) []token {
	var out []token
	// offsets come from ranging over the string: an invalid byte decodes to
	// U+FFFD but still occupies one byte of text.
	rs := make([]rune, 0, len(text))
	offsets := make([]int, 0, len(text)+1)
	for off, r := range text {
		rs = append(rs, r)
		offsets = append(offsets, off)
	}
	offsets = append(offsets, len(text))

	emit := func(kind tokenKind, from, to int) {
		out = append(out, token{kind: kind, text: text[offsets[from]:offsets[to]], pos: offsets[from]})
	}

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case isIdentRune(r):
			j := i + 1
			for j < len(rs) && isIdentRune(rs[j]) {
				j++
			}
			emit(tokIdent, i, j)
			i = j
		case unicode.IsSpace(r):
			j := i + 1
			for j < len(rs) && unicode.IsSpace(rs[j]) {
				j++
			}
			emit(tokSpace, i, j)
			i = j
		case r == '{':
			emit(tokLBrace, i, i+1)
			i++
		case r == '}':
			emit(tokRBrace, i, i+1)
			i++
		case r == '"':
			j := i + 1
			for j < len(rs) && rs[j] != '"' && rs[j] != '\n' {
				j++
			}
			if j < len(rs) && rs[j] == '"' {
				emit(tokQuoted, i, j+1)
				i = j + 1
				continue
			}
			emit(tokOther, i, i+1)
			i++
		default:
			emit(tokOther, i, i+1)
			i++
		}
	}
	return out
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

type blockKind string

const (
	blockClass     blockKind = "class"
	blockInterface blockKind = "interface"
	blockEnum      blockKind = "enum"
)

// block is one `<keyword> <name> { <body> }` match.
type block struct {
	kind blockKind
	name string
	body string
}

type scanState int

const (
	stateTop     scanState = iota
	stateKeyword           // keyword seen, waiting for whitespace + name
	stateName              // name seen, waiting for `{`
	stateBody              // inside braces, waiting for `}`
)

// scanBlocks runs the block state machine over the token stream. Anything that
// does not complete the keyword → name → { → } sequence is skipped.
func scanBlocks(text string) []block {
	var (
		out     []block
		state   = stateTop
		kind    blockKind
		name    string
		spaced  bool
		bodyPos int
	)

	tokens := lex(text)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch state {
		case stateTop:
			if tok.kind != tokIdent {
				continue
			}
			switch blockKind(tok.text) {
			case blockClass, blockInterface, blockEnum:
				kind = blockKind(tok.text)
				spaced = false
				state = stateKeyword
			}

		case stateKeyword:
			switch {
			case tok.kind == tokSpace:
				spaced = true
			case tok.kind == tokIdent && spaced:
				name = tok.text
				state = stateName
			default:
				state = stateTop
				i-- // the token may start another block
			}

		case stateName:
			switch tok.kind {
			case tokSpace:
			case tokLBrace:
				bodyPos = tok.pos + len(tok.text)
				state = stateBody
			default:
				state = stateTop
				i--
			}

		case stateBody:
			if tok.kind == tokRBrace {
				out = append(out, block{kind: kind, name: name, body: text[bodyPos:tok.pos]})
				state = stateTop
			}
		}
	}
	return out
}
