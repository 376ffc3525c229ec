package client

import "fmt"

// ConstructionError is raised synchronously when building a handle
// fails: invalid configuration, credential setup failure, or engine
// initialization failure. Construction is never retried by this layer.
type ConstructionError struct {
	Reason string
	Err    error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("client construction: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("client construction: %s", e.Reason)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
