package pamargs

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/dzonerzy/go-pamargs/internal/intern"
	"github.com/dzonerzy/go-pamargs/middleware"
)

// compiledFlag is a Flag with its references resolved to canonical names.
type compiledFlag struct {
	decl       Flag
	deps, excl []string
}

// compiledKV is a KeyValue ready for matching.
type compiledKV struct {
	decl       KeyValue
	formats    Formats
	conv       Converter
	allowed    map[string]struct{}
	deps, excl []string
}

// Parser turns argument lists into Results. It is immutable after
// NewParser returns and may be shared between goroutines; only the sinks
// bound to declarations touch caller memory.
type Parser struct {
	cfg        Config
	table      *intern.Table
	flags      map[string]*compiledFlag
	kvs        map[string]*compiledKV
	flagList   []*compiledFlag
	kvList     []*compiledKV
	candidates []string
	run        middleware.ActionFunc
	log        tracer
}

// NewParser checks the configuration and declarations and builds a parser.
// Middleware run outermost first around each Parse; a recovery layer always
// wraps them all.
func NewParser(cfg Config, flags []Flag, kvs []KeyValue, mw ...middleware.Middleware) (*Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{
		cfg:   cfg,
		table: intern.NewTable(cfg.CaseSensitive, len(flags)+len(kvs)),
		flags: make(map[string]*compiledFlag, len(flags)),
		kvs:   make(map[string]*compiledKV, len(kvs)),
		log:   tracer{sink: cfg.Logger},
	}

	for _, f := range flags {
		if err := p.register(f.Name); err != nil {
			return nil, err
		}
		cf := &compiledFlag{decl: f}
		p.flags[f.Name] = cf
		p.flagList = append(p.flagList, cf)
	}
	for _, kv := range kvs {
		if err := p.register(kv.Name); err != nil {
			return nil, err
		}
		ck, err := p.compileKV(kv)
		if err != nil {
			return nil, err
		}
		p.kvs[kv.Name] = ck
		p.kvList = append(p.kvList, ck)
	}

	// References are resolved once every name is known.
	for _, cf := range p.flagList {
		var err error
		if cf.deps, err = p.resolveRefs(cf.decl.Name, "depends on", cf.decl.Dependencies); err != nil {
			return nil, err
		}
		if cf.excl, err = p.resolveRefs(cf.decl.Name, "excludes", cf.decl.Exclusions); err != nil {
			return nil, err
		}
	}
	for _, ck := range p.kvList {
		var err error
		if ck.deps, err = p.resolveRefs(ck.decl.Name, "depends on", ck.decl.Dependencies); err != nil {
			return nil, err
		}
		if ck.excl, err = p.resolveRefs(ck.decl.Name, "excludes", ck.decl.Exclusions); err != nil {
			return nil, err
		}
	}

	p.candidates = p.table.Names()
	chain := middleware.Chain(middleware.Recovery()).Use(mw...)
	p.run = chain.Apply(p.core)

	p.log.debug(ComponentParser, "parser ready: %d flags, %d key/values", len(p.flagList), len(p.kvList))
	return p, nil
}

func (p *Parser) register(name string) error {
	if name == "" {
		return errInvalidInput("argument name must not be empty")
	}
	if _, ok := p.table.Add(name); !ok {
		return errDuplicateArgName(name)
	}
	return nil
}

func (p *Parser) compileKV(kv KeyValue) (*compiledKV, error) {
	ck := &compiledKV{decl: kv, formats: kv.formats(), conv: kv.Converter}
	if ck.conv == nil {
		conv, err := p.cfg.Conversion.ByName(kv.Type)
		if err != nil {
			return nil, err
		}
		ck.conv = conv
	}
	if len(kv.AllowedValues) > 0 {
		ck.allowed = make(map[string]struct{}, len(kv.AllowedValues))
		for _, v := range kv.AllowedValues {
			ck.allowed[intern.Fold(v, p.cfg.CaseSensitiveValues)] = struct{}{}
		}
	}
	return ck, nil
}

func (p *Parser) resolveRefs(owner, relation string, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		canonical, ok := p.table.Lookup(name)
		if !ok {
			return nil, errInvalidInput("%s %s undeclared argument %s", owner, relation, name)
		}
		if canonical == owner {
			return nil, errInvalidInput("%s %s itself", owner, relation)
		}
		out = append(out, canonical)
	}
	return out, nil
}

// Config returns a copy of the parser's configuration.
func (p *Parser) Config() Config { return p.cfg }

// Names returns every declared name in declaration order, flags first.
func (p *Parser) Names() []string { return p.table.Names() }

// Parse runs the pipeline over args: tokenize, match, validate, then the
// sinks of every matched declaration in input order. On error no sink runs
// and no partial Result is returned.
func (p *Parser) Parse(args []string) (*Result, error) {
	inv := &invocation{args: args}
	if err := p.run(inv); err != nil {
		pe := toParseError(err)
		p.log.error(ComponentParser, pe)
		return nil, pe
	}
	if inv.result == nil {
		// A middleware returned nil without calling next.
		pe := errUnexpected(errors.New("parse produced no result"))
		p.log.error(ComponentParser, pe)
		return nil, pe
	}
	if err := p.deliver(inv.result); err != nil {
		p.log.error(ComponentBinding, err)
		return nil, err
	}
	return inv.result, nil
}

// core is the innermost ActionFunc.
func (p *Parser) core(mi middleware.Invocation) error {
	inv, ok := mi.(*invocation)
	if !ok {
		return errUnexpected(fmt.Errorf("middleware replaced the invocation with %T", mi))
	}
	groups, err := TokenizeAll(inv.args, p.cfg)
	if err != nil {
		return err
	}
	p.log.debug(ComponentTokenizer, "%d arguments tokenized", len(groups))

	res, err := p.match(groups)
	if err != nil {
		return err
	}
	if err := p.validate(res); err != nil {
		return err
	}
	inv.result = res
	return nil
}

// deliver runs the bound sinks. A panicking sink is reported as
// UnexpectedError like any other failure.
func (p *Parser) deliver(res *Result) error {
	for _, name := range res.order {
		var sink Sink
		var value any
		if cf, ok := p.flags[name]; ok {
			sink, value = cf.decl.Sink, true
		} else if ck, ok := p.kvs[name]; ok {
			sink, value = ck.decl.Sink, res.values[name].value
		}
		if sink == nil {
			continue
		}
		if err := callSink(name, sink, value); err != nil {
			return err
		}
		p.log.debug(ComponentBinding, "delivered %s", name)
	}
	return nil
}

func callSink(name string, sink Sink, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			stack = stack[:runtime.Stack(stack, false)]
			err = errUnexpected(fmt.Errorf("sink for %s: %w", name, &middleware.RecoveryError{Panic: r, Stack: stack}))
		}
	}()
	if err := sink(value); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return pe
		}
		return errUnexpected(fmt.Errorf("sink for %s: %w", name, err))
	}
	return nil
}

// toParseError maps whatever the middleware chain returned onto the closed
// error set.
func toParseError(err error) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	var ve *middleware.ValidationError
	if errors.As(err, &ve) {
		return &ParseError{Type: ErrorTypeInvalidValue, Name: ve.Name, Value: ve.Value, Input: ve.Message, Cause: ve}
	}
	return errUnexpected(err)
}

// invocation carries one Parse call through the middleware chain.
type invocation struct {
	args   []string
	result *Result
	meta   map[string]any
}

func (i *invocation) Args() []string { return i.args }

func (i *invocation) Outcome() middleware.Outcome {
	if i.result == nil {
		return nil
	}
	return i.result
}

func (i *invocation) Set(key string, value any) {
	if i.meta == nil {
		i.meta = make(map[string]any, 4)
	}
	i.meta[key] = value
}

func (i *invocation) Get(key string) any { return i.meta[key] }
