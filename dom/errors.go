package dom

import (
	"errors"
	"fmt"
)

// DOMError mirrors a DOMException: a well-known exception name plus a
// human readable message.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// IsDOMError reports whether err is, or wraps, a DOMError with the given name.
func IsDOMError(err error, name string) bool {
	var de *DOMError
	if !errors.As(err, &de) {
		return false
	}
	return de.Name == name
}

// ErrHierarchyRequest creates a HierarchyRequestError.
func ErrHierarchyRequest(message string) *DOMError {
	return &DOMError{Name: "HierarchyRequestError", Message: message}
}

// ErrNotFound creates a NotFoundError.
func ErrNotFound(message string) *DOMError {
	return &DOMError{Name: "NotFoundError", Message: message}
}

// ErrInvalidCharacter creates an InvalidCharacterError.
func ErrInvalidCharacter(message string) *DOMError {
	return &DOMError{Name: "InvalidCharacterError", Message: message}
}

// ErrInvalidState creates an InvalidStateError.
func ErrInvalidState(message string) *DOMError {
	return &DOMError{Name: "InvalidStateError", Message: message}
}

// ErrIndexSize creates an IndexSizeError.
func ErrIndexSize(message string) *DOMError {
	return &DOMError{Name: "IndexSizeError", Message: message}
}

// ErrInvalidNodeType creates an InvalidNodeTypeError.
func ErrInvalidNodeType(message string) *DOMError {
	return &DOMError{Name: "InvalidNodeTypeError", Message: message}
}

// ErrSyntax creates a SyntaxError, raised for unparsable selectors.
func ErrSyntax(message string) *DOMError {
	return &DOMError{Name: "SyntaxError", Message: message}
}
