package filtering

import (
	"errors"
	"fmt"
)

// ErrNoFieldsRemaining is returned when a policy removes every field of a description
var ErrNoFieldsRemaining = errors.New("no fields remaining")

// NoFieldsRemainingError reports the class whose description ended up empty
type NoFieldsRemainingError struct {
	ClassName string
}

// Error implements the error interface
func (e *NoFieldsRemainingError) Error() string {
	return fmt.Sprintf(
		"SObject '%s' has no fields in its description, probably because the blacklist and / or whitelist are configured incorrectly",
		e.ClassName)
}

// Is matches ErrNoFieldsRemaining
func (*NoFieldsRemainingError) Is(target error) bool {
	return target == ErrNoFieldsRemaining
}
