package schema

import "errors"

var (
	// ErrInvalidDefinition is returned for structurally broken documents.
	ErrInvalidDefinition = errors.New("schema: invalid form definition")
)
