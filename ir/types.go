// Package ir is the in-memory typed SSA intermediate representation that the
// symbolic executor operates over. Producing this representation from source
// text or a binary module is the job of a front end (see package irtext for a
// minimal one); this package only defines the data model a front end builds
// and the interpreter consumes.
package ir

import "fmt"

// Type is the type of an IR value. The closed set of concrete types mirrors
// what a typed SSA IR in the LLVM/decaf tradition distinguishes at the scalar
// level; the symbolic executor only knows how to sort-map IntType.
type Type interface {
	String() string
}

// IntType is an integer type of the given bit width, including width 1
// (booleans are represented as i1, following LLVM convention).
type IntType struct {
	Width int
}

func (t IntType) String() string { return fmt.Sprintf("i%d", t.Width) }

// FloatType, PointerType and VoidType are not supported by the sort mapper.
// They exist so that unsupported-type handling has something concrete to
// reject in tests; this core has no floating-point, pointer or void-value
// semantics (see Non-goals).
type FloatType struct{ Width int }

func (t FloatType) String() string { return fmt.Sprintf("f%d", t.Width) }

type PointerType struct{ Elem Type }

func (t PointerType) String() string { return "*" + t.Elem.String() }

type VoidType struct{}

func (VoidType) String() string { return "void" }
