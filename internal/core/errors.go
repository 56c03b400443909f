package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a missing or invalid required setting.
	ErrConfiguration = errors.New("configuration error")

	// ErrEventIgnored is returned for webhook events the bot does not act on.
	ErrEventIgnored = errors.New("event ignored")
)

// FetchError is returned when the diff of a change request could not be retrieved.
type FetchError struct {
	Platform   string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: fetch diff failed with status %d: %s", e.Platform, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: fetch diff failed: %v", e.Platform, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ModelError is returned when the generation endpoint is unreachable or answers with an error.
type ModelError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ModelError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model endpoint returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("model request failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// PublishError is returned when the hosting platform rejects a comment.
type PublishError struct {
	Platform   string
	StatusCode int
	Body       string
	Err        error
}

func (e *PublishError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: publish comment failed with status %d: %s", e.Platform, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: publish comment failed: %v", e.Platform, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
