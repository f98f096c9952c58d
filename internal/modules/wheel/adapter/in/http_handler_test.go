package in_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historydto "spinwheel/internal/modules/history/dto"
	historyin "spinwheel/internal/modules/history/port/in"
	rosterdto "spinwheel/internal/modules/roster/dto"
	rosterin "spinwheel/internal/modules/roster/port/in"
	wheelin "spinwheel/internal/modules/wheel/adapter/in"
	"spinwheel/internal/modules/wheel/dto"
	"spinwheel/internal/platform/logging"
)

type rosterStub struct {
	rosterin.Usecase
	items []rosterdto.ParticipantOutput
	err   error
}

func (r rosterStub) List(context.Context) ([]rosterdto.ParticipantOutput, error) {
	return r.items, r.err
}

type historyStub struct {
	historyin.Usecase
	entries   []historydto.EntryOutput
	lastLimit *int
}

func (h historyStub) List(_ context.Context, limit int) ([]historydto.EntryOutput, error) {
	*h.lastLimit = limit
	return h.entries, nil
}

func newServer(t *testing.T, roster rosterStub) (http.Handler, *[]dto.SpinInput, *int) {
	t.Helper()
	var spins []dto.SpinInput
	limit := -1
	history := historyStub{
		entries:   []historydto.EntryOutput{{ID: "h-1", WinnerName: "Ana", At: time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)}},
		lastLimit: &limit,
	}
	dispatch := wheelin.DispatcherFunc(func(in dto.SpinInput) { spins = append(spins, in) })
	return wheelin.NewHTTPHandler(dispatch, roster, history, logging.Discard()), &spins, &limit
}

func TestPostSpinDispatches(t *testing.T) {
	t.Parallel()
	h, spins, _ := newServer(t, rosterStub{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/spin", strings.NewReader(`{"duration_ms": 4000, "theme": "dramatic", "prize": "Mug"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, *spins, 1)
	assert.Equal(t, dto.SpinInput{Duration: 4 * time.Second, Theme: "dramatic", Prize: "Mug"}, (*spins)[0])
}

func TestPostSpinAcceptsEmptyBody(t *testing.T) {
	t.Parallel()
	h, spins, _ := newServer(t, rosterStub{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/spin", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, *spins, 1)
	assert.Equal(t, dto.SpinInput{}, (*spins)[0])
}

func TestPostSpinRejectsBadInput(t *testing.T) {
	t.Parallel()
	h, spins, _ := newServer(t, rosterStub{})
	for _, body := range []string{`{"duration_ms": -1}`, `{not json`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/spin", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, *spins)
}

func TestGetRosterAndHistory(t *testing.T) {
	t.Parallel()
	h, _, limit := newServer(t, rosterStub{items: []rosterdto.ParticipantOutput{{ID: "p-1", Name: "Ana", Weight: 2}}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/roster", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var roster []rosterdto.ParticipantOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
	assert.Equal(t, "Ana", roster[0].Name)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, *limit)
	assert.Contains(t, rec.Body.String(), `"winner_name":"Ana"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=lots", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRosterErrorIsInternal(t *testing.T) {
	t.Parallel()
	h, _, _ := newServer(t, rosterStub{err: errors.New("boom")})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/roster", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	t.Parallel()
	h, _, _ := newServer(t, rosterStub{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
