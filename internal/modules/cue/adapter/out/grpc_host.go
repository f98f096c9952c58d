package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	cuerpc "spinwheel/internal/modules/cue/adapter/out/rpc"
	"spinwheel/internal/modules/cue/domain"
	cueout "spinwheel/internal/modules/cue/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 2 * time.Second
	defaultQueueSize    = 32
)

type GRPCHost struct {
	log hclog.Logger
}

func NewGRPCHost(log hclog.Logger) cueout.Host {
	return &GRPCHost{log: log.Named("cue-host")}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	cues := make([]domain.Kind, 0, len(meta.Cues))
	for _, c := range meta.Cues {
		cues = append(cues, domain.Kind(c))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Cues: cues}, nil
}

// Open starts the plugin once and keeps it running for the life of the
// returned sink.
func (h *GRPCHost) Open(_ context.Context, manifest domain.Manifest) (cueout.Sink, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	return newPluginSink(client, manifest, defaultQueueSize, closeFn, h.log.With("plugin", manifest.Name)), nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (cuerpc.CuePlayerClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  cuerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          cuerpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.log.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start cue plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(cuerpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense cue plugin: %w", err)
	}
	typed, ok := raw.(cuerpc.CuePlayerClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("cue plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
