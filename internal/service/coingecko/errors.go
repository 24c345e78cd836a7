package coingecko

import "fmt"

// ProviderError reports an unrecoverable market-data fetch: transport failure
// or non-success status after the retry budget is spent. Status is 0 when the
// request never reached the provider.
type ProviderError struct {
	Provider string
	Endpoint string
	Status   int
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d after %d attempt(s)", e.Provider, e.Endpoint, e.Status, e.Attempts)
	}
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Provider, e.Endpoint, e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
