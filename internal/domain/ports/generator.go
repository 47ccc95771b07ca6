package ports

import (
	"context"
)

// OutlineRequest carries the inputs for one outline generation call
type OutlineRequest struct {
	// Title is the user-supplied presentation title embedded in the prompt
	Title string

	// DocumentText is the extracted PDF text; only the first chunk is ever
	// sent to the model
	DocumentText string
}

// OutlineGenerator defines the interface to the remote text-generation
// service. The service is a black box: prompt in, raw reply text out. Call
// failures surface as descriptive errors and are never retried.
type OutlineGenerator interface {
	GenerateOutline(ctx context.Context, req OutlineRequest) (string, error)
}
