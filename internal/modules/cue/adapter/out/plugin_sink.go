package out

import (
	"context"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	cuerpc "spinwheel/internal/modules/cue/adapter/out/rpc"
	"spinwheel/internal/modules/cue/domain"
	"spinwheel/internal/platform/metrics"
)

type player interface {
	Play(ctx context.Context, in *cuerpc.PlayRequest) error
}

// PluginSink forwards cues to a running plugin from a single worker. Play
// enqueues and returns; a full queue drops the cue.
type PluginSink struct {
	client   player
	manifest domain.Manifest
	queue    chan domain.Event
	closeFn  func()
	log      hclog.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newPluginSink(client player, manifest domain.Manifest, size int, closeFn func(), log hclog.Logger) *PluginSink {
	if size <= 0 {
		size = 1
	}
	s := &PluginSink{
		client:   client,
		manifest: manifest,
		queue:    make(chan domain.Event, size),
		closeFn:  closeFn,
		log:      log,
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *PluginSink) Play(event domain.Event) {
	if !s.manifest.Handles(event.Kind) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- event:
	default:
		metrics.CuesDropped.WithLabelValues(string(event.Kind)).Inc()
		s.log.Debug("cue queue full, dropping", "cue", event.Kind)
	}
}

func (s *PluginSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PluginSink) run() {
	defer close(s.done)
	for event := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
		err := s.client.Play(ctx, &cuerpc.PlayRequest{
			Kind:     string(event.Kind),
			AtUnixMS: event.At.UnixMilli(),
			Winner:   event.Winner,
		})
		cancel()
		if err != nil {
			metrics.CuesDropped.WithLabelValues(string(event.Kind)).Inc()
			s.log.Warn("cue delivery failed", "cue", event.Kind, "error", err)
		}
	}
}
