package extractor

import (
	"fmt"
)

// FetchError wraps a network, timeout or HTTP failure while retrieving a
// tracked website. The orchestrator records it as a status=error result.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError means the page was retrieved but its structure was not
// understood at all and no items could be recovered.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.URL, e.Reason)
}
