package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"spinwheel/internal/modules/history/domain"
	historyout "spinwheel/internal/modules/history/port/out"
	"spinwheel/internal/platform/clock"
	apperrors "spinwheel/internal/platform/errors"
	"spinwheel/internal/platform/id"
	"spinwheel/internal/platform/metrics"
)

type HistoryService struct {
	mu       sync.Mutex
	clock    clock.Clock
	idGen    id.Generator
	store    historyout.Store
	exporter historyout.Exporter
	log      hclog.Logger
}

func NewHistoryService(clock clock.Clock, idGen id.Generator, store historyout.Store, exporter historyout.Exporter, log hclog.Logger) *HistoryService {
	return &HistoryService{clock: clock, idGen: idGen, store: store, exporter: exporter, log: log.Named("history")}
}

// Append records a win unless the newest entry is the same winner within
// domain.DuplicateWindow; in that case the existing entry is returned with
// appended=false.
func (s *HistoryService) Append(ctx context.Context, winner domain.Winner, prize string) (domain.Entry, bool, error) {
	if strings.TrimSpace(winner.ID) == "" {
		return domain.Entry{}, false, fmt.Errorf("%w: winner id is required", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	latest, ok, err := s.store.Latest(ctx)
	if err != nil {
		return domain.Entry{}, false, err
	}
	if ok && domain.IsDuplicate(latest, winner.ID, now) {
		metrics.HistoryDuplicates.Inc()
		s.log.Debug("suppressed duplicate history entry", "winner", winner.Name, "since", now.Sub(latest.At))
		return latest, false, nil
	}
	entry := domain.Entry{ID: s.idGen.New(), At: now, Winner: winner, Prize: strings.TrimSpace(prize)}
	if err := s.store.Append(ctx, entry); err != nil {
		return domain.Entry{}, false, err
	}
	s.log.Info("winner logged", "winner", winner.Name, "prize", entry.Prize, "entry_id", entry.ID)
	return entry, true, nil
}

func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.store.List(ctx, limit)
}

func (s *HistoryService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(ctx)
}

func (s *HistoryService) Export(ctx context.Context, path, title string) (string, int, error) {
	if strings.TrimSpace(path) == "" {
		return "", 0, fmt.Errorf("%w: export path is required", apperrors.ErrInvalidInput)
	}
	entries, err := s.store.List(ctx, 0)
	if err != nil {
		return "", 0, err
	}
	written, err := s.exporter.Export(ctx, path, title, entries)
	if err != nil {
		return "", 0, err
	}
	return written, len(entries), nil
}

func (s *HistoryService) Render(ctx context.Context, title string) (string, error) {
	entries, err := s.store.List(ctx, 0)
	if err != nil {
		return "", err
	}
	return s.exporter.Render(title, entries)
}
