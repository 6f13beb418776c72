// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
)

// ErrorKind tags a failure with the category recorded in status rows.
type ErrorKind string

const (
	KindOK             ErrorKind = "OK"
	KindIO             ErrorKind = "IO"
	KindJSON           ErrorKind = "JSON_DESER"
	KindPDF            ErrorKind = "PDF"
	KindNoKeywords     ErrorKind = "NO_KEYWORDS"
	KindMissingSection ErrorKind = "MISSING_SECTION"
	KindUTF8           ErrorKind = "UTF8"
	KindDB             ErrorKind = "DB"
	KindNetwork        ErrorKind = "NETWORK"
	KindHTTPStatus     ErrorKind = "HTTP_STAT"
	KindNoBucketObject ErrorKind = "NO_GCS_OBJ"
	KindOther          ErrorKind = "OTHER"
)

var (
	ErrIO                  = errors.New("i/o error")
	ErrJSON                = errors.New("json (de)serialization error")
	ErrPDF                 = errors.New("pdf text extraction error")
	ErrNoKeywords          = errors.New("no keywords section")
	ErrUTF8                = errors.New("text is not valid utf-8")
	ErrDB                  = errors.New("database error")
	ErrNetwork             = errors.New("network error")
	ErrMalformedIdentifier = errors.New("malformed paper identifier")
)

// MissingSectionError reports that a required section header was not found.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("section %q is missing from paper", e.Section)
}

// HTTPStatusError reports a non-success response from the object store.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.Code)
}

// NoBucketObjectError reports an identifier with no matching object.
type NoBucketObjectError struct {
	ID string
}

func (e *NoBucketObjectError) Error() string {
	return fmt.Sprintf("no bucket object for %s", e.ID)
}

// ContentTypeError reports an object whose declared media type is not the expected one.
type ContentTypeError struct {
	ObjectID    string
	ContentType string
	Want        string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("object %q content type is %q, want %q", e.ObjectID, e.ContentType, e.Want)
}

// ExtractionError ties a pipeline failure to the paper it happened on.
type ExtractionError struct {
	ID  string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.ID, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Kind classifies the underlying error.
func (e *ExtractionError) Kind() ErrorKind { return KindOf(e.Err) }

// WrapError annotates err with the operation that failed while keeping kind
// detectable through errors.Is.
func WrapError(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// KindOf maps an error onto the status taxonomy. Typed errors are checked
// before the transport and decoding errors of the standard library.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindOK
	}

	var (
		missing   *MissingSectionError
		status    *HTTPStatusError
		noObject  *NoBucketObjectError
		urlErr    *url.Error
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		pathErr   *fs.PathError
	)

	switch {
	case errors.Is(err, ErrNoKeywords):
		return KindNoKeywords
	case errors.As(err, &missing):
		return KindMissingSection
	case errors.As(err, &noObject):
		return KindNoBucketObject
	case errors.As(err, &status):
		return KindHTTPStatus
	case errors.Is(err, ErrPDF):
		return KindPDF
	case errors.Is(err, ErrUTF8):
		return KindUTF8
	case errors.Is(err, ErrDB):
		return KindDB
	case errors.Is(err, ErrJSON), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return KindJSON
	case errors.Is(err, ErrNetwork), errors.As(err, &urlErr), errors.As(err, &netErr):
		return KindNetwork
	case errors.Is(err, ErrIO), errors.As(err, &pathErr):
		return KindIO
	default:
		return KindOther
	}
}
