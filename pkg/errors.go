package corrozy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotImplemented marks grammar constructs that are recognized but not supported
var ErrNotImplemented = errors.New("not implemented")

type Location struct {
	Filename string
	Line     int
	Col      int
}

func (l *Location) String() string {
	if l == nil {
		return "<unknown>"
	}

	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Col)
}

type CompileError interface {
	error
	fmt.Stringer
}

// SyntaxError is raised by the grammar when the input can't be matched
type SyntaxError struct {
	Loc *Location
	Msg string
}

func (e *SyntaxError) String() string {
	return fmt.Sprintf("%s syntax error: %s", e.Loc, e.Msg)
}

func (e *SyntaxError) Error() string {
	return e.String()
}

// StructuralError is raised when a rule matched but a mandatory field is absent
type StructuralError struct {
	Loc   *Location
	Msg   string
	cause error
}

func (e *StructuralError) String() string {
	return fmt.Sprintf("%s %s", e.Loc, e.Msg)
}

func (e *StructuralError) Error() string {
	return e.String()
}

func (e *StructuralError) Unwrap() error {
	return e.cause
}

type UnsupportedError struct {
	Kind string
}

func (e *UnsupportedError) String() string {
	return fmt.Sprintf("unsupported expression type for PHP generation: %s", e.Kind)
}

func (e *UnsupportedError) Error() string {
	return e.String()
}

// ScopeError lists every variable a closure uses that its parent scope doesn't define
type ScopeError struct {
	Names []string
}

func newScopeError(names map[string]struct{}) *ScopeError {
	e := &ScopeError{}
	for name := range names {
		e.Names = append(e.Names, name)
	}
	sort.Strings(e.Names)

	return e
}

func (e *ScopeError) String() string {
	return fmt.Sprintf(
		"undefined variables in closure: %s. These variables are used but not declared in the outer scope",
		strings.Join(e.Names, ", "),
	)
}

func (e *ScopeError) Error() string {
	return e.String()
}
