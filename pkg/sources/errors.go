package sources

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks an ASIN that is not part of the account's library.
var ErrNotFound = errors.New("title not found in library")

// ClientError is a failed invocation of the external library tool. The
// raw stderr is kept verbatim: the dominant real-world failure is an
// expired authentication token, and the tool's own diagnostic is the
// only useful signal the user gets.
type ClientError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *ClientError) Error() string {
	msg := fmt.Sprintf("audible %s failed: %v", e.Op, e.Err)
	if diag := strings.TrimSpace(e.Stderr); diag != "" {
		msg += "\n" + diag
	}
	return msg
}

func (e *ClientError) Unwrap() error { return e.Err }

// ParseError reports library listing output the adapter could not
// interpret, e.g. after a schema change in the external tool. It is
// deliberately distinct from ClientError: the tool ran fine, its output
// shape did not match, and guessing a fallback would hide that.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse library listing line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("parse library listing: %s", e.Reason)
}
