// SPDX-License-Identifier: Apache-2.0

// Package constraint checks extraction results against a CUE definition.
//
// Absent fields are presented to CUE as null, so a definition that allows a
// field to be missing should say so explicitly:
//
//	#Result: {
//		name: string
//		age?: int & >=0 | null
//	}
package constraint

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/gemaraproj/fieldextract/internal/extract"
)

// DefaultDefinition is used when Compile is given an empty definition name.
const DefaultDefinition = "#Result"

// ErrViolation is matched by every *ViolationError.
var ErrViolation = errors.New("constraint violation")

// Violation is a single failed constraint.
type Violation struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// ViolationError lists every constraint a value failed.
type ViolationError struct {
	Definition string
	Violations []Violation
}

func (e *ViolationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		if v.Path == "" {
			parts[i] = v.Message
			continue
		}
		parts[i] = v.Path + ": " + v.Message
	}
	return fmt.Sprintf("value does not satisfy %s: %s", e.Definition, strings.Join(parts, "; "))
}

func (e *ViolationError) Is(target error) bool {
	return target == ErrViolation
}

// Checker holds a compiled definition. It is safe for concurrent use.
type Checker struct {
	mu         sync.Mutex
	ctx        *cue.Context
	def        cue.Value
	definition string
}

// Compile compiles CUE source and looks up the named definition.
func Compile(src, definition string) (*Checker, error) {
	if definition == "" {
		definition = DefaultDefinition
	}
	p := cue.ParsePath(definition)
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("invalid definition name %q: %w", definition, err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(src, cue.Filename("constraint.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile constraint: %w", err)
	}

	def := schema.LookupPath(p)
	if !def.Exists() {
		return nil, fmt.Errorf("definition %s not found", definition)
	}
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("definition %s: %w", definition, err)
	}

	return &Checker{ctx: ctx, def: def, definition: definition}, nil
}

// Definition returns the name of the definition values are checked against.
func (c *Checker) Definition() string {
	return c.definition
}

// Check validates an extraction result. Absent fields are checked as null.
func (c *Checker) Check(r *extract.Result) error {
	return c.CheckValue(r.Map())
}

// CheckValue validates any Go value that CUE can encode.
func (c *Checker) CheckValue(x any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.ctx.Encode(x)
	if err := v.Err(); err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	err := c.def.Unify(v).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	return &ViolationError{Definition: c.definition, Violations: violations(err, c.definition)}
}

func violations(err error, definition string) []Violation {
	errs := cueerrors.Errors(err)
	out := make([]Violation, 0, len(errs))
	seen := make(map[Violation]struct{}, len(errs))
	for _, e := range errs {
		format, args := e.Msg()
		v := Violation{
			Path:    strings.Join(trimDefinition(e.Path(), definition), "."),
			Message: fmt.Sprintf(format, args...),
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		out = append(out, Violation{Message: err.Error()})
	}
	return out
}

// trimDefinition drops the definition's own selectors from an error path so
// that reported paths name result fields.
func trimDefinition(p []string, definition string) []string {
	prefix := strings.Split(definition, ".")
	if len(p) < len(prefix) {
		return p
	}
	for i, sel := range prefix {
		if p[i] != sel {
			return p
		}
	}
	return p[len(prefix):]
}
