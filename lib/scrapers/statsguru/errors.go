package statsguru

import "fmt"

// BlockedError means the site's bot defense rejected us outright.
// Retrying within the same run is pointless: the operator has to switch
// client strategy (different transport, headless browser, ...) first.
type BlockedError struct {
	URL    string
	Status int
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("blocked by bot defense (status %d) at %s", e.Status, e.URL)
}

// NotFoundError means the player id does not resolve to a page at all.
type NotFoundError struct {
	URL    string
	Status int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("player page not found (status %d) at %s", e.Status, e.URL)
}

// FetchError is a transient failure that survived every retry.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed after %d attempts at %s: %v", e.Attempts, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the page body could not be parsed as HTML at all.
// A parseable page with no tables in it is not an error.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable page: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError means two distinct columns collided under one name while
// building a normalized table. It aborts the category, not the run.
type SchemaError struct {
	Column string
	Key    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column %q collides in table %q", e.Column, e.Key)
}
