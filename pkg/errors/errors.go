package errors

import (
	"fmt"
)

// Result mirrors a minimal Ok/Err monadic value, used at the boundary of
// fallible construction pipelines (ruleset loading) instead of panicking.
type Result[T any] interface {
	IsOk() bool
	IsErr() bool
	Unwrap() T
	UnwrapErr() error
	UnwrapOr(defaultValue T) T
	Map(fn func(T) T) Result[T]
	MapErr(fn func(error) error) Result[T]
}

type okResult[T any] struct {
	value T
}

func (r okResult[T]) IsOk() bool                            { return true }
func (r okResult[T]) IsErr() bool                           { return false }
func (r okResult[T]) Unwrap() T                             { return r.value }
func (r okResult[T]) UnwrapErr() error                      { panic("called UnwrapErr on Ok result") }
func (r okResult[T]) UnwrapOr(defaultValue T) T             { return r.value }
func (r okResult[T]) Map(fn func(T) T) Result[T]            { return Ok(fn(r.value)) }
func (r okResult[T]) MapErr(fn func(error) error) Result[T] { return r }

type errResult[T any] struct {
	err error
}

func (r errResult[T]) IsOk() bool                            { return false }
func (r errResult[T]) IsErr() bool                           { return true }
func (r errResult[T]) Unwrap() T                             { panic("called Unwrap on Err result") }
func (r errResult[T]) UnwrapErr() error                      { return r.err }
func (r errResult[T]) UnwrapOr(defaultValue T) T             { return defaultValue }
func (r errResult[T]) Map(fn func(T) T) Result[T]            { return r }
func (r errResult[T]) MapErr(fn func(error) error) Result[T] { return Err[T](fn(r.err)) }

func Ok[T any](value T) Result[T] {
	return okResult[T]{value: value}
}

func Err[T any](err error) Result[T] {
	return errResult[T]{err: err}
}

// Try adapts a (value, error) pair, the common shape of yaml.Unmarshal-style
// calls, into a Result.
func Try[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

func ToGoTuple[T any](result Result[T]) (T, error) {
	if result.IsOk() {
		return result.Unwrap(), nil
	}
	var zero T
	return zero, result.UnwrapErr()
}

// ErrorKind enumerates the failure taxonomy. The core Predicate/ATree
// evaluation path never produces one of these: it fails closed instead (a
// predicate that cannot apply evaluates to false, and a leaf with no result
// never contributes to the matching engine's three-valued fold). These are reserved for
// the peripheral construction/loading paths (ruleset YAML, draft building).
type ErrorKind int

const (
	ErrKindYAMLDecode      ErrorKind = iota // malformed YAML document
	ErrKindUnknownOperator                  // operator name not in {and,or,not,equals,...}
	ErrKindBadArity                         // wrong number of operands for an operator
	ErrKindBadOperand                       // operand value couldn't be parsed into a Value
	ErrKindEmptyExpression                  // an expression entry has no body
	ErrKindDuplicateName                    // a ruleset document registers the same name twice
	ErrKindUnknownName                      // lookup of an unregistered expression name
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindYAMLDecode:
		return "YAML_DECODE"
	case ErrKindUnknownOperator:
		return "UNKNOWN_OPERATOR"
	case ErrKindBadArity:
		return "BAD_ARITY"
	case ErrKindBadOperand:
		return "BAD_OPERAND"
	case ErrKindEmptyExpression:
		return "EMPTY_EXPRESSION"
	case ErrKindDuplicateName:
		return "DUPLICATE_NAME"
	case ErrKindUnknownName:
		return "UNKNOWN_NAME"
	default:
		return "UNKNOWN"
	}
}

// ATreeError is the engine's typed error. Message carries the offending
// identifier (operator name, expression name, ...); Cause wraps an
// underlying error such as a yaml.v3 decode failure.
type ATreeError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ATreeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ATreeError) Unwrap() error {
	return e.Cause
}

func (e *ATreeError) Is(target error) bool {
	other, ok := target.(*ATreeError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func New(kind ErrorKind, message string) *ATreeError {
	return &ATreeError{Kind: kind, Message: message}
}

func Wrap(kind ErrorKind, message string, cause error) *ATreeError {
	return &ATreeError{Kind: kind, Message: message, Cause: cause}
}

func NewYAMLDecode(cause error) *ATreeError {
	return Wrap(ErrKindYAMLDecode, "failed to decode ruleset document", cause)
}

func NewUnknownOperator(name string) *ATreeError {
	return New(ErrKindUnknownOperator, name)
}

func NewBadArity(operator string, want, got int) *ATreeError {
	return New(ErrKindBadArity, fmt.Sprintf("%s wants %d operands, got %d", operator, want, got))
}

func NewBadOperand(detail string) *ATreeError {
	return New(ErrKindBadOperand, detail)
}

func NewEmptyExpression(name string) *ATreeError {
	return New(ErrKindEmptyExpression, name)
}

func NewDuplicateName(name string) *ATreeError {
	return New(ErrKindDuplicateName, name)
}

func NewUnknownName(name string) *ATreeError {
	return New(ErrKindUnknownName, name)
}
