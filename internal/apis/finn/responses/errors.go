package responses

import "fmt"

// MalformedPayloadError reports a required field missing from, or of the
// wrong type in, an otherwise successful payload. Field is a dotted path.
type MalformedPayloadError struct {
	Field string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: field %q missing or invalid", e.Field)
}
