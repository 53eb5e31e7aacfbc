package pamargs

import (
	"errors"
	"strings"

	"github.com/dzonerzy/go-pamargs/internal/fuzzy"
	"github.com/dzonerzy/go-pamargs/internal/intern"
)

// suggestDistance bounds typo suggestions for unrecognized arguments.
const suggestDistance = 2

// match walks the tokens once, in input order, and sorts each into a flag,
// a declared key/value, the overflow store or the leftover text.
func (p *Parser) match(groups []TokenGroup) (*Result, error) {
	res := newResult(p.table, p.cfg.newStore())
	for _, g := range groups {
		for _, tok := range g.Tokens {
			if err := p.matchToken(res, tok, g.Bracketed); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (p *Parser) matchToken(res *Result, tok string, bracketed bool) error {
	if name, ok := p.table.Lookup(tok); ok {
		if _, isFlag := p.flags[name]; isFlag {
			res.addFlag(name)
			p.log.debug(ComponentParser, "flag %s", name)
			return nil
		}
	}

	d := DetectFormat(tok, p.cfg)
	if d.Format == FormatNotKeyValue {
		return p.leftover(res, tok, tok)
	}

	if name, ok := p.table.Lookup(d.Key); ok {
		if ck, isKV := p.kvs[name]; isKV {
			return p.matchKV(res, ck, d)
		}
		// The key names a flag, but flags take no value.
		return errInvalidKeyValue(name, tok)
	}

	if p.cfg.AcceptUndeclared && p.cfg.UndeclaredFormats.Allows(d.Format) {
		// A bare identifier is ambiguous with leftover text; only the
		// bracketed form is taken as a key when both modes are on.
		if d.Format == FormatKeyOnly && !bracketed && p.cfg.CollectLeftover {
			return p.leftover(res, tok, d.Key)
		}
		value := d.Value
		if p.cfg.TrimValues {
			value = strings.TrimSpace(value)
		}
		res.overflow.Add(d.Key, value, d.HasValue)
		p.log.debug(ComponentStore, "undeclared %s stored", d.Key)
		return nil
	}
	if p.cfg.CollectLeftover && d.Format != FormatKeyOnly {
		p.log.warn(ComponentParser, "undeclared key %s kept as text", d.Key)
	}
	return p.leftover(res, tok, d.Key)
}

func (p *Parser) matchKV(res *Result, ck *compiledKV, d Detected) error {
	if err := ValidateFormat(d, ck.formats); err != nil {
		return err
	}
	name := ck.decl.Name
	if !d.HasValue {
		res.setValue(name, matchedValue{})
		p.log.debug(ComponentParser, "key %s without value", name)
		return nil
	}

	raw := d.Value
	if p.cfg.TrimValues {
		raw = strings.TrimSpace(raw)
	}
	if ck.allowed != nil {
		if _, ok := ck.allowed[intern.Fold(raw, p.cfg.CaseSensitiveValues)]; !ok {
			return errInvalidValue(name, raw)
		}
	}

	value, err := p.cfg.Conversion.Convert(ck.conv, raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			named := *pe
			if named.Name == "" {
				named.Name = name
			}
			return &named
		}
		e := errInvalidValue(name, raw)
		e.Cause = err
		return e
	}
	res.setValue(name, matchedValue{raw: raw, hasValue: true, value: value})
	p.log.debug(ComponentParser, "key %s=%q", name, raw)
	return nil
}

// leftover keeps tok as free text or rejects it, suggesting the declared
// name closest to key.
func (p *Parser) leftover(res *Result, tok, key string) error {
	if p.cfg.CollectLeftover {
		res.leftover = append(res.leftover, tok)
		return nil
	}
	e := errUnrecognizedArg(tok)
	e.Suggestion = fuzzy.Suggest(key, p.candidates, suggestDistance)
	return e
}
