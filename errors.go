package cml

import (
	"reflect"

	cmlerrors "github.com/KimNorgaard/go-cml/errors"
)

// Structural parse failures. Errors returned by Parse match one of these
// with errors.Is, and can be inspected further as a *ParseError.
var (
	ErrMissingHeader      error = cmlerrors.MissingHeader
	ErrMalformedHeader    error = cmlerrors.MalformedHeader
	ErrMissingBody        error = cmlerrors.MissingBody
	ErrUnbalancedBrackets error = cmlerrors.UnbalancedBrackets
	ErrUnterminatedString error = cmlerrors.UnterminatedString
	ErrMaxDepthExceeded   error = cmlerrors.MaxDepthExceeded
)

// ParseError describes where and why parsing failed.
type ParseError = cmlerrors.ParseError

// A MarshalerError represents an error from calling a MarshalCML or
// MarshalText method.
type MarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *MarshalerError) Error() string {
	return "cml: error calling marshaler for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *MarshalerError) Unwrap() error { return e.Err }

// An UnmarshalerError represents an error from calling an UnmarshalCML or
// UnmarshalText method.
type UnmarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "cml: error calling unmarshaler for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }
