package classifier

import "errors"

// Common errors returned by the classifier package
var (
	// ErrNoEndpoints is returned when the client is constructed without
	// any enabled endpoint.
	ErrNoEndpoints = errors.New("no enabled classification endpoints")

	// ErrEndpointExhausted is returned when an endpoint keeps failing
	// after its configured number of retries.
	ErrEndpointExhausted = errors.New("classification endpoint retries exhausted")

	// ErrMalformedResponse is returned when the model response does not
	// have the expected shape (missing choices, empty content, no JSON).
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrMissingField is returned when the verdict payload parses as
	// JSON but lacks one of the four required fields.
	ErrMissingField = errors.New("model response missing required field")
)
