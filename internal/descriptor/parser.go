package descriptor

import (
	"bytes"
	"fmt"
	"strconv"
	"text/scanner"
)

// Parse reads a package.lua record. The grammar implemented here is a
// restricted literal subset of Lua table syntax — assignment statements,
// string literals, list/map table literals, and call expressions whose
// arguments are themselves string literals (used only by the native field to
// name a built-in native-prerequisite factory and its arguments). There is
// no general expression evaluator: this walks the same kind of literal
// grammar the build engine's descriptor loader extracts call arguments from,
// rather than executing arbitrary script.
func Parse(data []byte) (*Descriptor, error) {
	p := newParser(data)
	p.next()

	fields := map[string]any{}
	for p.tok != scanner.EOF {
		if p.err != nil {
			return nil, p.err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectRune('='); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields[name] = val
	}
	if p.err != nil {
		return nil, p.err
	}
	return toDescriptor(fields)
}

type parser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func newParser(data []byte) *parser {
	p := &parser{}
	p.s.Init(bytes.NewReader(stripLuaComments(data)))
	p.s.Mode = scanner.ScanIdents | scanner.ScanStrings | scanner.ScanRawStrings
	p.s.Error = func(_ *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("descriptor: %s", msg)
		}
	}
	return p
}

// stripLuaComments blanks out Lua-style "--" line comments before the data
// reaches text/scanner, which only recognizes Go-style comment syntax.
// Quoted strings are tracked so a "--" occurring inside one is left alone.
func stripLuaComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	var quote byte
	for i := 0; i < len(data); i++ {
		c := data[i]
		if quote != 0 {
			out = append(out, c)
			if c == '\\' && i+1 < len(data) {
				i++
				out = append(out, data[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			out = append(out, c)
			continue
		}
		if c == '-' && i+1 < len(data) && data[i+1] == '-' {
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out = append(out, '\n')
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) expectIdent() (string, error) {
	if p.tok != scanner.Ident {
		return "", fmt.Errorf("descriptor: expected identifier, got %q", p.s.TokenText())
	}
	text := p.s.TokenText()
	p.next()
	return text, nil
}

func (p *parser) expectRune(r rune) error {
	if p.tok != r {
		return fmt.Errorf("descriptor: expected %q, got %q", string(r), p.s.TokenText())
	}
	p.next()
	return nil
}

func (p *parser) parseString() (string, error) {
	if p.tok != scanner.String && p.tok != scanner.RawString {
		return "", fmt.Errorf("descriptor: expected string literal, got %q", p.s.TokenText())
	}
	s, err := strconv.Unquote(p.s.TokenText())
	if err != nil {
		return "", fmt.Errorf("descriptor: bad string literal %s: %w", p.s.TokenText(), err)
	}
	p.next()
	return s, nil
}

// parseExpr parses a top-level or nested expression: a string literal, a
// table literal, or a dotted call expression (e.g. native.pkgconfig("z")),
// the last of which is how a table's keyed entry assigns a native-factory
// call as its value.
func (p *parser) parseExpr() (any, error) {
	switch p.tok {
	case scanner.String, scanner.RawString:
		return p.parseString()
	case '{':
		return p.parseTable()
	case scanner.Ident:
		name := p.s.TokenText()
		p.next()
		return p.parseCallTail(name)
	default:
		return nil, fmt.Errorf("descriptor: unexpected token %q", p.s.TokenText())
	}
}

// parseTable parses a table literal into either a []any (list form) or a
// map[string]any (keyed form), matching whichever the entries use.
func (p *parser) parseTable() (any, error) {
	if err := p.expectRune('{'); err != nil {
		return nil, err
	}

	var list []any
	keyed := map[string]any{}
	isKeyed := false

	for p.tok != '}' && p.tok != scanner.EOF {
		switch p.tok {
		case '[':
			p.next()
			key, err := p.parseString()
			if err != nil {
				return nil, err
			}
			if err := p.expectRune(']'); err != nil {
				return nil, err
			}
			if err := p.expectRune('='); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			isKeyed = true
			keyed[key] = val

		case scanner.Ident:
			name := p.s.TokenText()
			p.next()
			if p.tok == '=' {
				p.next()
				val, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				isKeyed = true
				keyed[name] = val
			} else {
				call, err := p.parseCallTail(name)
				if err != nil {
					return nil, err
				}
				list = append(list, call)
			}

		default:
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}

		if p.tok == ',' {
			p.next()
			continue
		}
		break
	}
	if err := p.expectRune('}'); err != nil {
		return nil, err
	}
	if isKeyed {
		return keyed, nil
	}
	return list, nil
}

// parseCallTail parses ("." IDENT)* "(" (STRING ("," STRING)*)? ")" given
// that the leading identifier name has already been consumed.
func (p *parser) parseCallTail(name string) (NativeCall, error) {
	full := name
	for p.tok == '.' {
		p.next()
		ident, err := p.expectIdent()
		if err != nil {
			return NativeCall{}, err
		}
		full += "." + ident
	}
	if err := p.expectRune('('); err != nil {
		return NativeCall{}, err
	}
	var args []string
	for p.tok != ')' && p.tok != scanner.EOF {
		s, err := p.parseString()
		if err != nil {
			return NativeCall{}, err
		}
		args = append(args, s)
		if p.tok == ',' {
			p.next()
			continue
		}
		break
	}
	if err := p.expectRune(')'); err != nil {
		return NativeCall{}, err
	}
	return NativeCall{Factory: full, Args: args}, nil
}
