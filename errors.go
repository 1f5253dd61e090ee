package goschema

import (
	"errors"
	"strconv"
	"strings"

	"github.com/reoring/goschema/i18n"
)

// Failure kinds (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeOverflow      = "overflow"
	CodeValidation    = "validation"
	CodeNotFound      = "not_found"
	CodeAmbiguousName = "ambiguous_name"
	// Schema definition problems (bad Extends graph, duplicate declarations, bad options).
	CodeInvalidSchema = "invalid_schema"
)

// Sentinels usable with errors.Is. They match any *Error of the same kind.
var (
	ErrRequired      = &Error{Kind: CodeRequired}
	ErrType          = &Error{Kind: CodeInvalidType}
	ErrOverflow      = &Error{Kind: CodeOverflow}
	ErrValidation    = &Error{Kind: CodeValidation}
	ErrNotFound      = &Error{Kind: CodeNotFound}
	ErrAmbiguousName = &Error{Kind: CodeAmbiguousName}
	ErrInvalidSchema = &Error{Kind: CodeInvalidSchema}
)

// Segment is one step of a Path: either a key or a 1-based position.
type Segment struct {
	Key   string
	Index int // 1-based; zero for key segments
}

// Path locates a failing value inside the input.
type Path []Segment

// Key returns a copy of p extended with a key segment.
func (p Path) Key(k string) Path {
	out := make(Path, 0, len(p)+1)
	return append(append(out, p...), Segment{Key: k})
}

// Index returns a copy of p extended with a 1-based position segment.
func (p Path) Index(i int) Path {
	out := make(Path, 0, len(p)+1)
	return append(append(out, p...), Segment{Index: i})
}

// String renders p as child.name, tags[3] or [2].items[1].sku.
func (p Path) String() string {
	b := &strings.Builder{}
	for _, s := range p {
		if s.Index > 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

// Error is the single failure type raised by the load pipeline.
type Error struct {
	Kind   string // One of the Code* constants.
	Path   Path
	Detail string // Human-readable text without the path.
	// Params carries structured parameters (e.g., {"min":1, "max":10}) for i18n
	// and observability.
	Params map[string]any
	Cause  error
}

// Error renders "<path>: <detail>" so the message always names the field.
func (e *Error) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = i18n.T(e.Kind, nil)
	}
	if len(e.Path) == 0 {
		return detail
	}
	return e.Path.String() + ": " + detail
}

// Is matches sentinels (and any other *Error) by Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) Unwrap() error { return e.Cause }

// Field returns the rendered path of the failing value.
func (e *Error) Field() string { return e.Path.String() }

// WithPrefix returns a copy of e whose path is rebased under prefix.
func (e *Error) WithPrefix(prefix Path) *Error {
	cp := *e
	cp.Path = make(Path, 0, len(prefix)+len(e.Path))
	cp.Path = append(append(cp.Path, prefix...), e.Path...)
	return &cp
}

// NewError builds an *Error whose detail comes from the i18n catalogue.
func NewError(kind string, params map[string]any) *Error {
	return &Error{Kind: kind, Detail: i18n.T(kind, stringParams(params)), Params: params}
}

// NewValidation builds a validation failure whose detail is the catalogue
// entry for key (for example "too_small" or "email").
func NewValidation(key string, params map[string]any) *Error {
	return &Error{Kind: CodeValidation, Detail: i18n.T(key, stringParams(params)), Params: params}
}

// Errorf builds an *Error with a literal detail.
func Errorf(kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// AsError extracts an *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsConfigError reports whether err is a registry or definition failure. Those
// are not caused by the input and must not be retried with different data.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrAmbiguousName) || errors.Is(err, ErrInvalidSchema)
}

// asFieldError converts err into an *Error, wrapping foreign errors as
// validation failures.
func asFieldError(err error) *Error {
	if e, ok := AsError(err); ok {
		return e
	}
	return &Error{Kind: CodeValidation, Detail: err.Error(), Cause: err}
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = toText(v)
	}
	return out
}
