package collector

import (
	"fmt"
	"strings"
)

// FetchError reports that a whole batch could not be retrieved.
type FetchError struct {
	Source  string
	Tickers []string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch [%s]: %v", e.Source, strings.Join(e.Tickers, ","), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
