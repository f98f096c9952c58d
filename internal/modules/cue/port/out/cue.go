package out

import (
	"context"

	"spinwheel/internal/modules/cue/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Sink delivers cues. Play must return without waiting on audio output.
type Sink interface {
	Play(event domain.Event)
	Close() error
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Open(ctx context.Context, manifest domain.Manifest) (Sink, error)
}
