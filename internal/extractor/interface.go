package extractor

import (
	"context"

	"github.com/nguyentantai21042004/docnarrator/internal/document"
)

// Extractor turns an uploaded document into plain text in source order.
type Extractor interface {
	Extract(ctx context.Context, doc *document.Document) (string, error)
}
