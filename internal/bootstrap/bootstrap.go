package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	cueinadapter "spinwheel/internal/modules/cue/adapter/in"
	cueoutadapter "spinwheel/internal/modules/cue/adapter/out"
	cuedto "spinwheel/internal/modules/cue/dto"
	cuein "spinwheel/internal/modules/cue/port/in"
	cueout "spinwheel/internal/modules/cue/port/out"
	cueservice "spinwheel/internal/modules/cue/service"
	cueusecase "spinwheel/internal/modules/cue/usecase"
	historyinadapter "spinwheel/internal/modules/history/adapter/in"
	historyoutadapter "spinwheel/internal/modules/history/adapter/out"
	historyin "spinwheel/internal/modules/history/port/in"
	historyservice "spinwheel/internal/modules/history/service"
	historyusecase "spinwheel/internal/modules/history/usecase"
	rosterinadapter "spinwheel/internal/modules/roster/adapter/in"
	rosteroutadapter "spinwheel/internal/modules/roster/adapter/out"
	rosterin "spinwheel/internal/modules/roster/port/in"
	rosterservice "spinwheel/internal/modules/roster/service"
	rosterusecase "spinwheel/internal/modules/roster/usecase"
	wheelinadapter "spinwheel/internal/modules/wheel/adapter/in"
	wheeloutadapter "spinwheel/internal/modules/wheel/adapter/out"
	"spinwheel/internal/modules/wheel/domain"
	wheeldto "spinwheel/internal/modules/wheel/dto"
	wheelin "spinwheel/internal/modules/wheel/port/in"
	wheelout "spinwheel/internal/modules/wheel/port/out"
	wheelservice "spinwheel/internal/modules/wheel/service"
	wheelusecase "spinwheel/internal/modules/wheel/usecase"
	"spinwheel/internal/platform/clock"
	"spinwheel/internal/platform/config"
	"spinwheel/internal/platform/frame"
	"spinwheel/internal/platform/id"
	"spinwheel/internal/platform/logging"
	uiapp "spinwheel/internal/ui/app"
	wheelview "spinwheel/internal/ui/views/wheel"
)

// minIdleCards keeps the idle carousel wider than any terminal.
const minIdleCards = 24

type Options struct {
	// Presenter receives the wheel's drawing commands. Nil discards them.
	Presenter wheelout.Presenter
	// Interactive attaches the configured cue plugin. Commands that never
	// spin leave it off so no plugin process starts.
	Interactive bool
	// LogToStderr bypasses the log file; only safe without the TUI.
	LogToStderr bool
}

type App struct {
	Config config.Config
	Log    hclog.Logger
	Loop   *frame.Loop

	RosterCLI  rosterinadapter.CLIHandler
	HistoryCLI historyinadapter.CLIHandler
	CueCLI     cueinadapter.CLIHandler
	WheelCLI   wheelinadapter.CLIHandler

	roster  rosterin.Usecase
	history historyin.Usecase
	cues    cuein.Usecase
	wheel   wheelin.Usecase
	logFile io.Closer
}

func New(cfg config.Config, opts Options) (*App, error) {
	logPath := cfg.LogPath
	if opts.LogToStderr {
		logPath = ""
	}
	log, logFile, err := logging.New(logging.Options{
		Path:  logPath,
		Level: cfg.LogLevel,
		JSON:  cfg.LogFormat == "json",
	})
	if err != nil {
		return nil, err
	}

	clk := clock.SystemClock{}
	ids := id.UUID{}

	rosterUC := rosterusecase.NewInteractor(rosterservice.NewRosterService(
		rosteroutadapter.NewYAMLFileStore(cfg.RosterPath), ids, log,
	))

	historyStore, err := historyoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("new history store: %w", err)
	}
	historyUC := historyusecase.NewInteractor(historyservice.NewHistoryService(
		clk, ids, historyStore, historyoutadapter.NewMarkdownExporter(clk), log,
	))

	cueUC := cueusecase.NewInteractor(cueservice.NewCueService(
		cueoutadapter.NewFileManifestStore(cfg.DataDir),
		cueoutadapter.NewGRPCHost(log),
		newCueSink(cfg.Cues.Sink),
		clk,
		log,
	))
	cueUC.SetMuted(cfg.Cues.Muted)
	if opts.Interactive && cfg.Cues.Sink == "plugin" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := cueUC.Attach(ctx, cuedto.AttachInput{PluginName: cfg.Cues.Plugin})
		cancel()
		if err != nil {
			log.Warn("cue plugin unavailable, running silent", "plugin", cfg.Cues.Plugin, "error", err)
		}
	}

	announcer, err := newAnnouncer(cfg, log)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	presenter := opts.Presenter
	if presenter == nil {
		presenter = wheeloutadapter.NewWriterPresenter(io.Discard)
	}

	mode, err := domain.ParseMode(cfg.Spin.Mode)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}
	theme, err := domain.ParseTheme(cfg.Spin.Theme)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	loop := frame.New(clk.Now())
	motion := domain.NewMotion(loop, domain.MotionOptions{
		Geometry: domain.Geometry{
			CardWidth:    cfg.Motion.CardWidth,
			Gap:          cfg.Motion.Gap,
			MarkerOffset: cfg.Motion.MarkerOffset,
		},
		IdleSpeed: cfg.Motion.IdleSpeed,
		WrapCards: cfg.Motion.WrapCards,
	})
	orchestrator := wheelservice.NewOrchestrator(wheelservice.Deps{
		Scheduler: loop,
		Motion:    motion,
		Roster:    wheeloutadapter.NewRosterSourceAdapter(rosterUC),
		History:   wheeloutadapter.NewHistoryRecorderAdapter(historyUC),
		Cues:      wheeloutadapter.NewCuePlayerAdapter(cueUC),
		Presenter: presenter,
		Announcer: announcer,
		RNG:       domain.NewRNG(),
		Clock:     clk,
		IDs:       ids,
		Log:       log,
	}, wheelservice.Options{
		Mode:            mode,
		Theme:           theme,
		Duration:        cfg.Spin.Duration,
		PreRoll:         cfg.Spin.PreRoll,
		RevealDelay:     cfg.Spin.RevealDelay,
		RemoveAfterWin:  cfg.Spin.RemoveAfterWin,
		ShuffleRoster:   cfg.Spin.ShuffleRoster,
		MinLandingCards: cfg.Spin.MinLandingCards,
		MsPerCard:       cfg.Spin.MsPerCard,
		TrailingCards:   cfg.Spin.TrailingCards,
		ShuffleSpeed:    cfg.Motion.ShuffleSpeed,
		MinIdleCards:    minIdleCards,
	})
	wheelUC := wheelusecase.NewInteractor(orchestrator)

	log.Debug("app ready", "data", cfg.DataDir, "mode", mode, "theme", theme, "cue_sink", cfg.Cues.Sink)
	return &App{
		Config:     cfg,
		Log:        log,
		Loop:       loop,
		RosterCLI:  rosterinadapter.NewCLIHandler(rosterUC),
		HistoryCLI: historyinadapter.NewCLIHandler(historyUC, cfg.DataDir),
		CueCLI:     cueinadapter.NewCLIHandler(cueUC),
		WheelCLI:   wheelinadapter.NewCLIHandler(wheelUC),
		roster:     rosterUC,
		history:    historyUC,
		cues:       cueUC,
		wheel:      wheelUC,
		logFile:    logFile,
	}, nil
}

func newCueSink(kind string) cueout.Sink {
	if kind == "bell" {
		return cueoutadapter.NewBellSink(os.Stderr)
	}
	return cueoutadapter.NewNopSink()
}

func newAnnouncer(cfg config.Config, log hclog.Logger) (wheelout.Announcer, error) {
	if cfg.Announce.DiscordWebhookURL == "" {
		return wheeloutadapter.NewNopAnnouncer(), nil
	}
	a, err := wheeloutadapter.NewDiscordAnnouncer(cfg.Announce.DiscordWebhookURL, cfg.EventName, log)
	if err != nil {
		return nil, fmt.Errorf("discord announcer: %w", err)
	}
	return a, nil
}

// Close stops the frame loop and cue delivery, then the log file.
func (a *App) Close() error {
	a.Loop.Stop()
	err := a.cues.Close()
	return errors.Join(err, a.logFile.Close())
}

// HTTPHandler serves the remote control API; spins go through dispatch.
func (a *App) HTTPHandler(dispatch wheelinadapter.Dispatcher) http.Handler {
	return wheelinadapter.NewHTTPHandler(dispatch, a.roster, a.history, a.Log)
}

// NewTUI builds the Bubble Tea program. The surface must be the presenter
// the App was built with.
func (a *App) NewTUI(surface *wheelview.Surface) *tea.Program {
	themes := make([]string, 0, len(domain.Themes()))
	for _, t := range domain.Themes() {
		themes = append(themes, string(t))
	}
	model := uiapp.NewModel(uiapp.Deps{
		Wheel:         a.wheel,
		Surface:       surface,
		Roster:        a.roster,
		History:       a.history,
		Cues:          a.cues,
		Frames:        a.Loop,
		FrameInterval: a.Config.FrameInterval(),
		DataDir:       a.Config.DataDir,
		Event:         a.Config.EventName,
		Themes:        themes,
		Theme:         a.Config.Spin.Theme,
		Duration:      a.Config.Spin.Duration,
	})
	return tea.NewProgram(model, tea.WithAltScreen())
}

// RunTUI runs the terminal UI until the user quits. When addr is set, the
// remote control server runs alongside it.
func RunTUI(ctx context.Context, cfg config.Config, addr string) error {
	surface := wheelview.NewSurface()
	app, err := New(cfg, Options{Presenter: surface, Interactive: true})
	if err != nil {
		return err
	}
	defer app.Close()

	program := app.NewTUI(surface)
	if addr == "" {
		_, err = program.Run()
		return err
	}

	dispatch := wheelinadapter.DispatcherFunc(func(in wheeldto.SpinInput) {
		program.Send(uiapp.SpinMsg(in))
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.HTTPHandler(dispatch),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		app.Log.Info("remote control listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			program.Quit()
		}
		close(serveErr)
	}()

	_, runErr := program.Run()
	shutdownCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if err := <-serveErr; err != nil {
		return fmt.Errorf("remote control: %w", err)
	}
	return runErr
}
