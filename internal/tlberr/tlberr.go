package tlberr

import (
	"strconv"
	"strings"
)

// Kind categorizes the error.
type Kind string

const (
	KindNotFound                 Kind = "not_found"                 // catalog or file-system miss
	KindLoadFailed               Kind = "load_failed"               // loader rejected a located file
	KindAttributeUnavailable     Kind = "attribute_unavailable"     // attribute block could not be read
	KindDocumentationUnavailable Kind = "documentation_unavailable" // name/help lookup failed
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrNotFound                 = &Error{Kind: KindNotFound}
	ErrLoadFailed               = &Error{Kind: KindLoadFailed}
	ErrAttributeUnavailable     = &Error{Kind: KindAttributeUnavailable}
	ErrDocumentationUnavailable = &Error{Kind: KindDocumentationUnavailable}
)

// Error is the structured error type shared by the resolver and the library
// wrapper.
type Error struct {
	Cause      error
	Kind       Kind
	Identifier string
	Detail     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	switch e.Kind {
	case KindNotFound:
		b.WriteString("type library ")
		b.WriteString(strconv.Quote(e.Identifier))
		b.WriteString(" not found")
	case KindLoadFailed:
		b.WriteString("loading type library ")
		b.WriteString(strconv.Quote(e.Identifier))
		b.WriteString(" failed")
	case KindAttributeUnavailable:
		b.WriteString("attribute ")
		b.WriteString(e.Identifier)
		b.WriteString(" unavailable")
	default:
		b.WriteString(string(e.Kind))
		if e.Identifier != "" {
			b.WriteString(" for ")
			b.WriteString(e.Identifier)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NotFound reports that identifier has no usable catalog entry or file.
func NotFound(identifier, detail string) *Error {
	return &Error{Kind: KindNotFound, Identifier: identifier, Detail: detail}
}

// NotFoundCause is NotFound with an underlying cause.
func NotFoundCause(identifier string, cause error) *Error {
	return &Error{Kind: KindNotFound, Identifier: identifier, Cause: cause}
}

// LoadFailed wraps a loader rejection of a located file.
func LoadFailed(path string, cause error) *Error {
	return &Error{Kind: KindLoadFailed, Identifier: path, Cause: cause}
}

// AttributeUnavailable wraps a failure to read the attribute block for op.
func AttributeUnavailable(op string, cause error) *Error {
	return &Error{Kind: KindAttributeUnavailable, Identifier: op, Cause: cause}
}

// DocumentationUnavailable wraps a failed documentation query at index.
func DocumentationUnavailable(index int, cause error) *Error {
	return &Error{
		Kind:       KindDocumentationUnavailable,
		Identifier: "index " + strconv.Itoa(index),
		Cause:      cause,
	}
}
