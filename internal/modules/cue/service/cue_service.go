package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"spinwheel/internal/modules/cue/domain"
	"spinwheel/internal/modules/cue/dto"
	cueout "spinwheel/internal/modules/cue/port/out"
	"spinwheel/internal/platform/clock"
)

type CueService struct {
	store cueout.ManifestStore
	host  cueout.Host
	clock clock.Clock
	log   hclog.Logger

	mu       sync.Mutex
	sink     cueout.Sink
	muted    bool
	lastTick time.Time
}

func NewCueService(store cueout.ManifestStore, host cueout.Host, sink cueout.Sink, clock clock.Clock, log hclog.Logger) *CueService {
	return &CueService{store: store, host: host, sink: sink, clock: clock, log: log.Named("cue")}
}

func (s *CueService) PlayTick() {
	s.play(domain.KindTick, "")
}

func (s *CueService) PlaySpinStart() {
	s.play(domain.KindSpinStart, "")
}

func (s *CueService) PlayWin(winner string) {
	s.play(domain.KindWin, winner)
}

func (s *CueService) play(kind domain.Kind, winner string) {
	s.mu.Lock()
	if s.muted || s.sink == nil {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	if kind == domain.KindTick {
		if !s.lastTick.IsZero() && now.Sub(s.lastTick) < domain.TickInterval {
			s.mu.Unlock()
			return
		}
		s.lastTick = now
	}
	sink := s.sink
	s.mu.Unlock()
	sink.Play(domain.Event{Kind: kind, At: now, Winner: winner})
}

func (s *CueService) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

func (s *CueService) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Attach verifies the named plugin and makes it the active sink. The previous
// sink is closed.
func (s *CueService) Attach(ctx context.Context, pluginName string) error {
	manifest, err := s.getRunnableManifest(ctx, pluginName)
	if err != nil {
		return err
	}
	sink, err := s.host.Open(ctx, manifest)
	if err != nil {
		return err
	}
	s.mu.Lock()
	previous := s.sink
	s.sink = sink
	s.mu.Unlock()
	if previous != nil {
		_ = previous.Close()
	}
	s.log.Info("cue plugin attached", "plugin", manifest.Name, "version", manifest.Version)
	return nil
}

func (s *CueService) Close() error {
	s.mu.Lock()
	sink := s.sink
	s.sink = nil
	s.mu.Unlock()
	if sink == nil {
		return nil
	}
	return sink.Close()
}

func (s *CueService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		cues := make([]string, 0, len(m.Cues))
		for _, c := range m.Cues {
			cues = append(cues, string(c))
		}
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Cues: cues})
	}
	return out, nil
}

func (s *CueService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *CueService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate cue plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *CueService) getRunnableManifest(ctx context.Context, pluginName string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	var manifest domain.Manifest
	found := false
	for _, item := range manifests {
		if item.Name == pluginName {
			manifest = item
			found = true
			break
		}
	}
	if !found {
		return domain.Manifest{}, fmt.Errorf("%w: %q", domain.ErrPluginNotFound, pluginName)
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginDisabled, pluginName)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	if s.host == nil {
		return domain.Manifest{}, fmt.Errorf("cue plugin host is not configured")
	}
	if err := s.host.CheckLifecycle(ctx, manifest); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginTimeout, pluginName)
		}
		return domain.Manifest{}, err
	}
	return manifest, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cue plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
