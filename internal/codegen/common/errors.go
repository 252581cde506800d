package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies hard translation errors.
type ErrorKind int

const (
	KindUnsupported ErrorKind = iota + 1
	KindDuplicateClass
	KindUnmatchedAnonymous
	KindTemplateArgument
	KindInheritanceCycle
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported construct"
	case KindDuplicateClass:
		return "duplicate class"
	case KindUnmatchedAnonymous:
		return "unmatched anonymous aggregate"
	case KindTemplateArgument:
		return "unsupported template argument"
	case KindInheritanceCycle:
		return "inheritance cycle"
	case KindMalformed:
		return "malformed declaration"
	default:
		return "translation error"
	}
}

// TranslateError is the single error type for hard errors. Decl identifies
// the offending declaration, e.g. "Circle::Area".
type TranslateError struct {
	Kind   ErrorKind
	Decl   string
	Detail string
	Err    error
}

func (e *TranslateError) Error() string {
	msg := e.Kind.String()
	if e.Decl != "" {
		msg += " in " + e.Decl
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TranslateError) Unwrap() error { return e.Err }

// Is matches the kind sentinels below, so callers can write
// errors.Is(err, common.ErrKindUnsupported).
func (e *TranslateError) Is(target error) bool {
	t, ok := target.(*TranslateError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Decl == "" && t.Detail == "" && t.Err == nil
}

// Kind sentinels for errors.Is.
var (
	ErrKindUnsupported        = &TranslateError{Kind: KindUnsupported}
	ErrKindDuplicateClass     = &TranslateError{Kind: KindDuplicateClass}
	ErrKindUnmatchedAnonymous = &TranslateError{Kind: KindUnmatchedAnonymous}
	ErrKindTemplateArgument   = &TranslateError{Kind: KindTemplateArgument}
	ErrKindInheritanceCycle   = &TranslateError{Kind: KindInheritanceCycle}
	ErrKindMalformed          = &TranslateError{Kind: KindMalformed}
)

// Factory helpers returning *TranslateError.
func ErrUnsupported(decl, construct string) *TranslateError {
	return &TranslateError{Kind: KindUnsupported, Decl: decl, Detail: construct}
}
func ErrDuplicateClass(name string) *TranslateError {
	return &TranslateError{Kind: KindDuplicateClass, Decl: name, Detail: "class name registered twice"}
}
func ErrUnmatchedAnonymous(decl string, key int) *TranslateError {
	return &TranslateError{Kind: KindUnmatchedAnonymous, Decl: decl, Detail: fmt.Sprintf("no anonymous union with key %d", key)}
}
func ErrTemplateArgument(decl, arg string, err error) *TranslateError {
	return &TranslateError{Kind: KindTemplateArgument, Decl: decl, Detail: fmt.Sprintf("%q", arg), Err: err}
}
func ErrInheritanceCycle(name string) *TranslateError {
	return &TranslateError{Kind: KindInheritanceCycle, Decl: name, Detail: "class derives from itself"}
}
func ErrMalformed(decl, detail string) *TranslateError {
	return &TranslateError{Kind: KindMalformed, Decl: decl, Detail: detail}
}

// WithDecl fills in the declaration identity of a hard error that was raised
// without one, e.g. by the type mapper.
func WithDecl(err error, decl string) error {
	var te *TranslateError
	if errors.As(err, &te) && te.Decl == "" {
		cp := *te
		cp.Decl = decl
		return &cp
	}
	return err
}
