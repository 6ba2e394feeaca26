// Package holdings provides the pluggable, circuit-breaker-protected
// external collaborator the matcher pulls a symbol's positions from.
package holdings

import (
	"context"
	"fmt"

	"github.com/eddiefleurent/stratmatch/internal/models"
)

// Source fetches the currently-held positions on one underlying. It is the
// only external collaborator interface the matcher depends on — fetching is
// the whole of its contract; the matcher never writes back through it.
type Source interface {
	Holdings(ctx context.Context, underlying string) ([]models.OptionPosition, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, underlying string) ([]models.OptionPosition, error)

// Holdings implements Source.
func (f SourceFunc) Holdings(ctx context.Context, underlying string) ([]models.OptionPosition, error) {
	return f(ctx, underlying)
}

// ErrUnknownUnderlying is returned by a Source when asked for an underlying
// it has no data for.
var ErrUnknownUnderlying = fmt.Errorf("holdings: unknown underlying")
