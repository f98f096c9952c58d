package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rosterout "spinwheel/internal/modules/roster/adapter/out"
	"spinwheel/internal/modules/roster/dto"
	rosterin "spinwheel/internal/modules/roster/port/in"
	"spinwheel/internal/modules/roster/service"
	"spinwheel/internal/modules/roster/usecase"
	apperrors "spinwheel/internal/platform/errors"
	"spinwheel/internal/platform/logging"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("p-%d", s.n)
}

func newUsecase(t *testing.T) (rosterin.Usecase, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	svc := service.NewRosterService(rosterout.NewYAMLFileStore(path), &seqID{}, logging.Discard())
	return usecase.NewInteractor(svc), path
}

func TestWeightedDecrementRemovesAtZero(t *testing.T) {
	t.Parallel()
	uc, _ := newUsecase(t)
	ctx := context.Background()
	p, err := uc.Add(ctx, dto.AddInput{Name: "Ethan", Weight: 3})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := uc.DecrementWeight(ctx, p.ID)
	if err != nil {
		t.Fatalf("first decrement: %v", err)
	}
	if out.Removed || out.Participant.Weight != 2 {
		t.Fatalf("expected weight 2 and still present, got %+v", out)
	}
	if got, err := uc.Get(ctx, p.ID); err != nil || got.Weight != 2 {
		t.Fatalf("expected stored weight 2, got %+v err=%v", got, err)
	}

	if _, err := uc.DecrementWeight(ctx, p.ID); err != nil {
		t.Fatalf("second decrement: %v", err)
	}
	out, err = uc.DecrementWeight(ctx, p.ID)
	if err != nil {
		t.Fatalf("third decrement: %v", err)
	}
	if !out.Removed {
		t.Fatalf("expected removal when weight reaches zero")
	}
	if _, err := uc.Get(ctx, p.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after removal, got %v", err)
	}
}

func TestAddCoercesNegativeWeightAndPersistsYAML(t *testing.T) {
	t.Parallel()
	uc, path := newUsecase(t)
	p, err := uc.Add(context.Background(), dto.AddInput{Name: "  Dana ", Weight: -4})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.Weight != 1 || p.Name != "Dana" {
		t.Fatalf("expected trimmed name and weight 1, got %+v", p)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read roster file: %v", err)
	}
	if !strings.Contains(string(raw), "name: Dana") || !strings.Contains(string(raw), "schema_version: 1") {
		t.Fatalf("roster yaml missing fields: %s", raw)
	}
	if _, err := uc.Add(context.Background(), dto.AddInput{Name: " "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}
}

func TestImportParsesRowsAndSkipsHeader(t *testing.T) {
	t.Parallel()
	uc, _ := newUsecase(t)
	text := "name,weight,tag\nAlice,1,ops\nBob,,night\n# comment\nCara,-2\n\"Ng, Eli\",5,,late,Sam\n"
	out, err := uc.Import(context.Background(), dto.ImportInput{Text: text})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if out.Added != 4 || out.Coerced != 1 {
		t.Fatalf("expected 4 added and 1 coerced, got %+v", out)
	}
	items, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items[1].Weight != 1 || items[1].Tag != "night" {
		t.Fatalf("expected default weight for Bob, got %+v", items[1])
	}
	if items[3].Name != "Ng, Eli" || items[3].Weight != 5 || items[3].Shift != "late" || items[3].Supervisor != "Sam" {
		t.Fatalf("quoted row parsed incorrectly: %+v", items[3])
	}

	replaced, err := uc.Import(context.Background(), dto.ImportInput{Text: "Zed\n", Replace: true})
	if err != nil || replaced.Added != 1 {
		t.Fatalf("replace import: %+v %v", replaced, err)
	}
	items, _ = uc.List(context.Background())
	if len(items) != 1 || items[0].Name != "Zed" {
		t.Fatalf("expected replaced roster, got %+v", items)
	}
}

func TestSetWeightCommand(t *testing.T) {
	t.Parallel()
	uc, _ := newUsecase(t)
	p, _ := uc.Add(context.Background(), dto.AddInput{Name: "Alice"})
	got, err := uc.SetWeight(context.Background(), dto.WeightCommand{ParticipantID: p.ID, Weight: 4})
	if err != nil || got.Weight != 4 {
		t.Fatalf("set weight: %+v %v", got, err)
	}
	if _, err := uc.SetWeight(context.Background(), dto.WeightCommand{ParticipantID: "missing", Weight: 2}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
