package pamargs

// validate checks the relations between matched declarations. The passes
// run in a fixed order and stop at the first violation: required keys,
// then dependencies, then exclusions. Within a pass flags are checked
// before key/values, each in declaration order.
func (p *Parser) validate(res *Result) error {
	for _, ck := range p.kvList {
		if ck.decl.Required && !res.has(ck.decl.Name) {
			return errRequiredArgMissing(ck.decl.Name)
		}
	}

	for _, cf := range p.flagList {
		if err := checkDeps(res, cf.decl.Name, cf.deps); err != nil {
			return err
		}
	}
	for _, ck := range p.kvList {
		if err := checkDeps(res, ck.decl.Name, ck.deps); err != nil {
			return err
		}
	}

	for _, cf := range p.flagList {
		if err := checkExclusions(res, cf.decl.Name, cf.excl); err != nil {
			return err
		}
	}
	for _, ck := range p.kvList {
		if err := checkExclusions(res, ck.decl.Name, ck.excl); err != nil {
			return err
		}
	}

	p.log.debug(ComponentValidator, "%d matched arguments valid", len(res.order))
	return nil
}

func checkDeps(res *Result, name string, deps []string) error {
	if len(deps) == 0 || !res.has(name) {
		return nil
	}
	for _, dep := range deps {
		if !res.has(dep) {
			return errDependencyNotMet(name, dep)
		}
	}
	return nil
}

func checkExclusions(res *Result, name string, excl []string) error {
	if len(excl) == 0 || !res.has(name) {
		return nil
	}
	for _, other := range excl {
		if res.has(other) {
			return errMutuallyExclusive(name, other)
		}
	}
	return nil
}
