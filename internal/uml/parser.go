package uml

import (
	"strings"
	"unicode"
)

// Parse builds the entity graph of one diagram text. It never fails: blocks,
// members and relations it cannot recognise are left out.
func Parse(text string) *Diagram {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	d := &Diagram{
		Classes:    []Entity{},
		Interfaces: []Entity{},
		Enums:      []Enum{},
		Relations:  []Relation{},
	}

	for _, b := range scanBlocks(text) {
		switch b.kind {
		case blockEnum:
			d.Enums = append(d.Enums, Enum{Name: b.name, Values: parseEnumValues(b.body)})
		case blockInterface:
			d.Interfaces = append(d.Interfaces, parseEntity(KindInterface, b))
		default:
			d.Classes = append(d.Classes, parseEntity(KindClass, b))
		}
	}

	// relations: independent pass over every line
	for _, line := range strings.Split(text, "\n") {
		if rel, ok := ParseRelation(line); ok {
			d.Relations = append(d.Relations, rel)
		}
	}
	return d
}

func parseEntity(kind EntityKind, b block) Entity {
	e := Entity{
		Name:       b.name,
		Kind:       kind,
		Attributes: []Attribute{},
		Methods:    []Method{},
	}
	for _, line := range bodyLines(b.body) {
		attr, method, ok := ParseMember(line)
		if !ok {
			continue
		}
		if method != nil {
			e.Methods = append(e.Methods, *method)
		} else {
			e.Attributes = append(e.Attributes, *attr)
		}
	}
	return e
}

func parseEnumValues(body string) []string {
	values := []string{}
	for _, line := range bodyLines(body) {
		for _, v := range strings.Split(line, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

func bodyLines(body string) []string {
	var out []string
	for _, l := range strings.Split(body, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// ParseAccess maps a member's leading visibility symbol. Unknown or missing
// symbols mean public.
func ParseAccess(symbol byte) Access {
	switch symbol {
	case '+':
		return AccessPublic
	case '-':
		return AccessPrivate
	case '#':
		return AccessProtected
	case '~':
		return AccessPackage
	default:
		return AccessPublic
	}
}

// ParseMember parses one trimmed body line. Exactly one of attr/method is set
// when ok is true.
func ParseMember(line string) (attr *Attribute, method *Method, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil, false
	}
	access := ParseAccess(line[0])
	clean := line
	if strings.ContainsRune("+-#~", rune(line[0])) {
		clean = strings.TrimSpace(line[1:])
	}

	name, rest := leadingIdent(clean)
	if name == "" {
		return nil, nil, false
	}

	if strings.Contains(clean, "(") {
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "(") {
			return nil, nil, false
		}
		closing := strings.LastIndexByte(rest, ')')
		if closing < 0 {
			return nil, nil, false
		}
		m := &Method{Name: name, Access: access}
		if after := strings.TrimSpace(rest[closing+1:]); strings.HasPrefix(after, ":") {
			m.ReturnType, _ = leadingIdent(strings.TrimSpace(after[1:]))
		}
		return nil, m, true
	}

	a := &Attribute{Name: name, Access: access}
	if after := strings.TrimSpace(rest); strings.HasPrefix(after, ":") {
		a.Type = typeToken(strings.TrimSpace(after[1:]))
	}
	return a, nil, true
}

// typeToken takes the leading type name of an attribute: identifier runes plus
// '-' so date-time survives. Address[] and Person; yield Address and Person.
func typeToken(s string) string {
	end := len(s)
	for i, r := range s {
		if !isIdentRune(r) && r != '-' {
			end = i
			break
		}
	}
	return strings.TrimRight(s[:end], "-")
}

func leadingIdent(s string) (ident, rest string) {
	end := len(s)
	for i, r := range s {
		if !isIdentRune(r) {
			end = i
			break
		}
	}
	if end == 0 {
		return "", s
	}
	// identifiers do not start with a digit
	if unicode.IsDigit(rune(s[0])) {
		return "", s
	}
	return s[:end], s[end:]
}
