package corrozy

import "sort"

// Scope is the set of PHP variables visible inside one function body.
// Conditional branches don't open a new scope, closures and functions do.
type Scope struct {
	Entries map[string]struct{}

	// Constants are global in PHP, every nested body sees them without
	// capturing
	constants map[string]struct{}

	// Declarations at program level rendered as named PHP functions
	lowered map[Stmt]struct{}
}

func NewScope() *Scope {
	return &Scope{
		Entries:   make(map[string]struct{}),
		constants: make(map[string]struct{}),
		lowered:   make(map[Stmt]struct{}),
	}
}

// NewBodyScope builds the scope of a function or closure body nested in
// parent
func NewBodyScope(parent *Scope, body *Block, params []Parameter, captured []string) *Scope {
	s := NewScope()
	if parent != nil {
		for name := range parent.constants {
			s.constants[name] = struct{}{}
		}
	}

	for name := range constantsIn(body) {
		s.constants[name] = struct{}{}
	}

	for name := range declaredIn(body) {
		s.Add(name)
	}

	for _, param := range params {
		s.Add(param.Name)
	}

	for _, name := range captured {
		s.Add(name)
	}

	for name := range s.constants {
		s.Remove(name)
	}

	return s
}

// NewProgramScope builds the top level scope. Loose closures that capture
// nothing are lowered to named functions and so don't bind a variable.
func NewProgramScope(statements []Stmt) *Scope {
	s := NewScope()

	body := &Block{Statements: statements}
	declared := declaredIn(body)
	s.constants = constantsIn(body)

	candidates := make(map[Stmt]*usage)
	for _, stmt := range statements {
		free, ok := looseClosureUsage(stmt)
		if ok && len(free.without(s.constants).vars) == 0 {
			candidates[stmt] = free
		}
	}

	// A candidate calling a closure that stays a variable can't be lowered
	// either, drop those until nothing changes
	for changed := true; changed; {
		changed = false

		names := make(map[string]struct{})
		for stmt := range candidates {
			names[looseClosureName(stmt)] = struct{}{}
		}

		for stmt, free := range candidates {
			for callee := range free.callees {
				_, isDeclared := declared[callee]
				_, isLowered := names[callee]
				if isDeclared && !isLowered {
					delete(candidates, stmt)
					changed = true
					break
				}
			}
		}
	}

	for stmt := range candidates {
		s.lowered[stmt] = struct{}{}
	}

	for name := range declared {
		s.Add(name)
	}

	for stmt := range s.lowered {
		s.Remove(looseClosureName(stmt))
	}

	for name := range s.constants {
		s.Remove(name)
	}

	return s
}

// NewArrowScope builds the scope of an arrow closure body, which sees its
// parent's variables
func NewArrowScope(parent *Scope, params []Parameter) *Scope {
	s := parent.Copy()
	s.lowered = make(map[Stmt]struct{})

	for _, param := range params {
		s.Add(param.Name)
	}

	return s
}

func (s *Scope) Add(name string) {
	s.Entries[name] = struct{}{}
}

func (s *Scope) Remove(name string) {
	delete(s.Entries, name)
}

func (s *Scope) Has(name string) bool {
	if s == nil {
		return false
	}

	_, ok := s.Entries[name]
	return ok
}

// Constant reports whether name refers to a constant rather than a variable
func (s *Scope) Constant(name string) bool {
	if s == nil {
		return false
	}

	_, ok := s.constants[name]
	return ok
}

// Lowered reports whether stmt renders as a named PHP function
func (s *Scope) Lowered(stmt Stmt) bool {
	if s == nil {
		return false
	}

	_, ok := s.lowered[stmt]
	return ok
}

func (s *Scope) Merge(s2 *Scope) {
	for name := range s2.Entries {
		s.Add(name)
	}
}

func (s *Scope) Copy() *Scope {
	s2 := NewScope()
	s2.Merge(s)

	for name := range s.constants {
		s2.constants[name] = struct{}{}
	}

	for stmt := range s.lowered {
		s2.lowered[stmt] = struct{}{}
	}

	return s2
}

func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.Entries))
	for name := range s.Entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// declaredIn collects the names a block binds: declarations and nested
// function declarations, looking through conditional branches but not into
// closures or function bodies
func declaredIn(block *Block) map[string]struct{} {
	declared := make(map[string]struct{})
	if block == nil {
		return declared
	}

	for _, stmt := range block.Statements {
		declareStmt(stmt, declared)
	}

	return declared
}

func declareStmt(stmt Stmt, declared map[string]struct{}) {
	switch s := stmt.(type) {
	case *VariableDecl:
		declared[s.Name] = struct{}{}
	case *ConstantDecl:
		declared[s.Name] = struct{}{}
	case *FuncDecl:
		declared[s.Name] = struct{}{}
	case *IfStmt:
		for name := range declaredIn(s.Then) {
			declared[name] = struct{}{}
		}

		switch e := s.Else.(type) {
		case *ElseIf:
			declareStmt(e.If, declared)
		case *ElseBlock:
			for name := range declaredIn(e.Block) {
				declared[name] = struct{}{}
			}
		}
	}
}

// constantsIn collects the constants a block declares, looking through
// conditional branches like declaredIn
func constantsIn(block *Block) map[string]struct{} {
	constants := make(map[string]struct{})
	if block == nil {
		return constants
	}

	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ConstantDecl:
			constants[s.Name] = struct{}{}
		case *IfStmt:
			for name := range constantsInIf(s) {
				constants[name] = struct{}{}
			}
		}
	}

	return constants
}

func constantsInIf(s *IfStmt) map[string]struct{} {
	constants := constantsIn(s.Then)

	var more map[string]struct{}
	switch e := s.Else.(type) {
	case *ElseIf:
		more = constantsInIf(e.If)
	case *ElseBlock:
		more = constantsIn(e.Block)
	}

	for name := range more {
		constants[name] = struct{}{}
	}

	return constants
}
