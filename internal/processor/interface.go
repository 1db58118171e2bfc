package processor

import "context"

// Processor narrates a document dropped into the input folder.
type Processor interface {
	Process(ctx context.Context, path string) error
}
