// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"
)

// ErrMalformedSpecification is matched by every *MalformedSpecificationError.
var ErrMalformedSpecification = errors.New("malformed specification")

// Reason names the constraint a specification entry violated.
type Reason string

const (
	ReasonShape     Reason = "expected a (path, transform) pair"
	ReasonPathType  Reason = "path must be a string"
	ReasonTransform Reason = "transform must be callable with one argument"
	ReasonName      Reason = "output field name must not be empty"
	ReasonDuplicate Reason = "output field name declared more than once"
)

// MalformedSpecificationError reports the first invalid entry of a field
// specification.
type MalformedSpecificationError struct {
	Field  string
	Reason Reason
	Detail string // optional, e.g. the unknown transform name
}

// Error implements the error interface.
func (e *MalformedSpecificationError) Error() string {
	msg := fmt.Sprintf("malformed specification for field %q: %s", e.Field, e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets errors.Is match ErrMalformedSpecification.
func (e *MalformedSpecificationError) Is(target error) bool {
	return target == ErrMalformedSpecification
}

func malformed(field string, reason Reason, detail string) *MalformedSpecificationError {
	return &MalformedSpecificationError{Field: field, Reason: reason, Detail: detail}
}
