package filters

import (
	"fmt"
	"strings"
)

// Parse builds a filter from an expression over registered names:
//
//	face & !enhanced
//	hearts | diamonds
//	(face or even) and not sealed
//
// '!' binds tighter than '&', which binds tighter than '|'.
func (r *Registry) Parse(expr string) (CardFilter, error) {
	p := &parser{reg: r, toks: tokenize(expr)}
	if len(p.toks) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidFilter)
	}
	f, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFilter, p.toks[p.pos], expr)
	}
	return f, nil
}

func tokenize(expr string) []string {
	var toks []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			toks = append(toks, keyword(word.String()))
			word.Reset()
		}
	}
	for _, ch := range expr {
		switch {
		case strings.ContainsRune("&|!()", ch):
			flush()
			toks = append(toks, string(ch))
		case ch == ' ' || ch == '\t' || ch == '\n':
			flush()
		default:
			word.WriteRune(ch)
		}
	}
	flush()
	return toks
}

func keyword(w string) string {
	switch strings.ToLower(w) {
	case "and":
		return "&"
	case "or":
		return "|"
	case "not":
		return "!"
	}
	return w
}

type parser struct {
	reg  *Registry
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) or() (CardFilter, error) {
	first, err := p.and()
	if err != nil {
		return nil, err
	}
	children := []CardFilter{first}
	for p.peek() == "|" {
		p.pos++
		next, err := p.and()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return Any(children...), nil
}

func (p *parser) and() (CardFilter, error) {
	first, err := p.unary()
	if err != nil {
		return nil, err
	}
	children := []CardFilter{first}
	for p.peek() == "&" {
		p.pos++
		next, err := p.unary()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return All(children...), nil
}

func (p *parser) unary() (CardFilter, error) {
	tok := p.peek()
	switch tok {
	case "":
		return nil, fmt.Errorf("%w: expression ends early", ErrInvalidFilter)
	case "!":
		p.pos++
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	case "(":
		p.pos++
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("%w: missing )", ErrInvalidFilter)
		}
		p.pos++
		return inner, nil
	case "&", "|", ")":
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidFilter, tok)
	}
	p.pos++
	return p.reg.Lookup(tok)
}
