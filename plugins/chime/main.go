package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	cuerpc "spinwheel/internal/modules/cue/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// chime rings the controlling terminal directly; stdout belongs to the
// plugin handshake.
type server struct {
	mu  sync.Mutex
	tty *os.File
}

func (s *server) GetMetadata(_ context.Context, _ *cuerpc.Empty) (*cuerpc.Metadata, error) {
	return &cuerpc.Metadata{
		Name:    "chime",
		Version: "1.0.0",
		Cues:    []string{"tick", "spin_start", "win"},
	}, nil
}

func (s *server) Play(_ context.Context, in *cuerpc.PlayRequest) (*cuerpc.Empty, error) {
	var pattern []time.Duration
	switch in.Kind {
	case "tick":
		pattern = []time.Duration{0}
	case "spin_start":
		pattern = []time.Duration{0, 120 * time.Millisecond}
	case "win":
		pattern = []time.Duration{0, 150 * time.Millisecond, 150 * time.Millisecond, 300 * time.Millisecond}
	default:
		return nil, fmt.Errorf("unknown cue: %s", in.Kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tty == nil {
		return &cuerpc.Empty{}, nil
	}
	for _, wait := range pattern {
		time.Sleep(wait)
		_, _ = s.tty.WriteString("\a")
	}
	return &cuerpc.Empty{}, nil
}

func main() {
	tty, _ := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: cuerpc.HandshakeConfig,
		Plugins:         cuerpc.PluginMap(&server{tty: tty}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
