package orders

import "fmt"

// NotFoundError reports a referenced user or product that does not exist.
// It is a client error; retrying the same request cannot succeed.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id: %s does not exist", e.Entity, e.ID)
}
