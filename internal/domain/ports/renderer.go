package ports

import (
	"context"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// PreviewRenderer renders a parsed outline as HTML slide cards for the
// browser preview. Output is sanitized and safe to inject into the page.
type PreviewRenderer interface {
	RenderPreview(ctx context.Context, outline entities.Outline) ([]byte, error)
}
