package archive

import (
	"errors"
	"fmt"
)

// ErrManifestFetch matches every manifest retrieval failure.
var ErrManifestFetch = errors.New("manifest fetch failed")

// FetchError describes why a manifest could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch manifest %s: returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch manifest %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrManifestFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrManifestFetch
}
