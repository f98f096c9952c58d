package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"spinwheel/internal/modules/roster/domain"
	rosterout "spinwheel/internal/modules/roster/port/out"
)

type YAMLFileStore struct {
	path string
}

func NewYAMLFileStore(path string) rosterout.Store {
	return &YAMLFileStore{path: path}
}

func (s *YAMLFileStore) Load(_ context.Context) (domain.Roster, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Roster{SchemaVersion: domain.SchemaVersion}, nil
		}
		return domain.Roster{}, fmt.Errorf("read roster: %w", err)
	}
	roster := domain.Roster{}
	if err := yaml.Unmarshal(raw, &roster); err != nil {
		return domain.Roster{}, fmt.Errorf("decode roster: %w", err)
	}
	if roster.SchemaVersion == 0 {
		roster.SchemaVersion = domain.SchemaVersion
	}
	return roster, nil
}

// Save writes through a temp file so a crash mid-write never truncates the
// roster.
func (s *YAMLFileStore) Save(_ context.Context, roster domain.Roster) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create roster dir: %w", err)
	}
	payload, err := yaml.Marshal(roster)
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write roster: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace roster: %w", err)
	}
	return nil
}
