package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"spinwheel/internal/modules/cue/domain"
	cueout "spinwheel/internal/modules/cue/port/out"
)

// BundledChime is the data-relative path of the chime plugin binary built
// from plugins/chime.
var BundledChime = filepath.Join("cues", "chime", "chime-plugin")

// FileManifestStore reads <data>/cues/plugins.json. Relative binaries resolve
// against the data directory. Without a manifest file the bundled chime
// plugin, when present, is offered with the checksum of the binary on disk.
type FileManifestStore struct {
	dataDir string
}

func NewFileManifestStore(dataDir string) cueout.ManifestStore {
	return &FileManifestStore{dataDir: dataDir}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	f, err := os.Open(filepath.Join(s.dataDir, "cues", "plugins.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return s.bundled()
	}
	if err != nil {
		return nil, fmt.Errorf("open cue manifests: %w", err)
	}
	defer f.Close()

	var manifests []domain.Manifest
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode cue manifests: %w", err)
	}
	for i := range manifests {
		manifests[i].Binary = s.resolve(manifests[i].Binary)
	}
	return manifests, nil
}

func (s *FileManifestStore) resolve(binary string) string {
	if binary == "" || filepath.IsAbs(binary) {
		return binary
	}
	return filepath.Clean(filepath.Join(s.dataDir, binary))
}

func (s *FileManifestStore) bundled() ([]domain.Manifest, error) {
	path := s.resolve(BundledChime)
	sum, err := fileSHA256(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hash bundled chime: %w", err)
	}
	return []domain.Manifest{{
		Name:    "chime",
		Version: "bundled",
		Binary:  path,
		SHA256:  sum,
		Enabled: true,
		Cues:    []domain.Kind{domain.KindTick, domain.KindSpinStart, domain.KindWin},
	}}, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
