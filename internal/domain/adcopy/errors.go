package adcopy

import "errors"

var (
	ErrUnknownOption = errors.New("unknown option")
	ErrUnknownField  = errors.New("unknown field")
)

// MissingFieldsMessage is shown when the required form fields are blank.
const MissingFieldsMessage = "Please provide at least a Product Name and Description."

// ValidationError reports a request that must not be sent upstream. Its
// message is safe to show to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
