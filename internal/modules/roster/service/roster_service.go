package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"spinwheel/internal/modules/roster/domain"
	rosterout "spinwheel/internal/modules/roster/port/out"
	apperrors "spinwheel/internal/platform/errors"
	"spinwheel/internal/platform/id"
)

// RosterService serializes load-modify-save cycles so the TUI and the remote
// control handler never interleave writes.
type RosterService struct {
	mu    sync.Mutex
	store rosterout.Store
	idGen id.Generator
	log   hclog.Logger
}

func NewRosterService(store rosterout.Store, idGen id.Generator, log hclog.Logger) *RosterService {
	return &RosterService{store: store, idGen: idGen, log: log.Named("roster")}
}

func (s *RosterService) List(ctx context.Context) ([]domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return roster.Participants, nil
}

func (s *RosterService) Get(ctx context.Context, participantID string) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, err := s.store.Load(ctx)
	if err != nil {
		return domain.Participant{}, err
	}
	idx := roster.IndexOf(participantID)
	if idx < 0 {
		return domain.Participant{}, fmt.Errorf("participant %s: %w", participantID, apperrors.ErrNotFound)
	}
	return roster.Participants[idx], nil
}

func (s *RosterService) Add(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.idGen.New()
	p.Name = strings.TrimSpace(p.Name)
	p.Weight = s.normalize(p.Name, p.Weight)
	if err := p.Validate(); err != nil {
		return domain.Participant{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	err := s.mutate(ctx, func(r *domain.Roster) error {
		r.Participants = append(r.Participants, p)
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}
	return p, nil
}

func (s *RosterService) Remove(ctx context.Context, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(r *domain.Roster) error {
		idx := r.IndexOf(participantID)
		if idx < 0 {
			return fmt.Errorf("participant %s: %w", participantID, apperrors.ErrNotFound)
		}
		r.Participants = append(r.Participants[:idx], r.Participants[idx+1:]...)
		return nil
	})
}

// DecrementWeight lowers the weight by one and removes the participant once
// it reaches zero.
func (s *RosterService) DecrementWeight(ctx context.Context, participantID string) (domain.Participant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out domain.Participant
	removed := false
	err := s.mutate(ctx, func(r *domain.Roster) error {
		idx := r.IndexOf(participantID)
		if idx < 0 {
			return fmt.Errorf("participant %s: %w", participantID, apperrors.ErrNotFound)
		}
		p := r.Participants[idx]
		p.Weight = p.EffectiveWeight() - 1
		out = p
		if p.Weight <= 0 {
			p.Weight = 0
			out = p
			removed = true
			r.Participants = append(r.Participants[:idx], r.Participants[idx+1:]...)
			return nil
		}
		r.Participants[idx] = p
		return nil
	})
	if err != nil {
		return domain.Participant{}, false, err
	}
	return out, removed, nil
}

func (s *RosterService) SetWeight(ctx context.Context, participantID string, weight float64) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out domain.Participant
	err := s.mutate(ctx, func(r *domain.Roster) error {
		idx := r.IndexOf(participantID)
		if idx < 0 {
			return fmt.Errorf("participant %s: %w", participantID, apperrors.ErrNotFound)
		}
		r.Participants[idx].Weight = s.normalize(r.Participants[idx].Name, weight)
		out = r.Participants[idx]
		return nil
	})
	return out, err
}

// Import reads `name[,weight[,tag[,shift[,supervisor]]]]` rows. A leading
// header row whose first cell is "name" is skipped.
func (s *RosterService) Import(ctx context.Context, text string, replace bool) (added, coerced, skipped int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var incoming []domain.Participant
	first := true
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: parse roster import: %v", apperrors.ErrInvalidInput, readErr)
		}
		if first && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			first = false
			continue
		}
		first = false
		name := strings.TrimSpace(record[0])
		if name == "" {
			skipped++
			continue
		}
		p := domain.Participant{ID: s.idGen.New(), Name: name}
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			w, parseErr := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
			if parseErr != nil {
				w = -1
			}
			p.Weight = w
		}
		normalized, wasCoerced := domain.NormalizeWeight(p.Weight)
		if wasCoerced {
			coerced++
			s.log.Warn("coerced roster weight", "name", name, "weight", p.Weight, "error", apperrors.ErrInvalidWeight)
		}
		p.Weight = normalized
		if len(record) > 2 {
			p.Tag = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			p.Shift = strings.TrimSpace(record[3])
		}
		if len(record) > 4 {
			p.Supervisor = strings.TrimSpace(record[4])
		}
		incoming = append(incoming, p)
	}

	err = s.mutate(ctx, func(r *domain.Roster) error {
		if replace {
			r.Participants = nil
		}
		r.Participants = append(r.Participants, incoming...)
		return nil
	})
	if err != nil {
		return 0, 0, 0, err
	}
	return len(incoming), coerced, skipped, nil
}

func (s *RosterService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(r *domain.Roster) error {
		r.Participants = nil
		return nil
	})
}

func (s *RosterService) mutate(ctx context.Context, fn func(*domain.Roster) error) error {
	roster, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(&roster); err != nil {
		return err
	}
	roster.SchemaVersion = domain.SchemaVersion
	return s.store.Save(ctx, roster)
}

func (s *RosterService) normalize(name string, weight float64) float64 {
	normalized, coerced := domain.NormalizeWeight(weight)
	if coerced {
		s.log.Warn("coerced roster weight", "name", name, "weight", weight, "error", apperrors.ErrInvalidWeight)
	}
	return normalized
}
