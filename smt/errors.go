package smt

import "errors"

// ErrUnsupportedType is returned by SortFor for any ir.Type that isn't an
// integer type — pointers, floats, aggregates, vectors, void-in-value
// position.
var ErrUnsupportedType = errors.New("smt: unsupported type")

// ErrUnsupportedConstant is returned by EvalConstant for any ir.Constant
// kind other than *ir.IntConst.
var ErrUnsupportedConstant = errors.New("smt: unsupported constant")

// ErrTypeMismatch is returned by ToBoolChecked when an expression is neither
// boolean nor a 1-bit bitvector, i.e. it cannot be normalized to a boolean.
var ErrTypeMismatch = errors.New("smt: type mismatch")
