package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"pybundle/internal/buildspec"
	"pybundle/internal/config"
	"pybundle/internal/diagnose"
	"pybundle/internal/history"
	"pybundle/internal/i18n"
	"pybundle/internal/logging"
	"pybundle/internal/pyinstaller"
	"pybundle/internal/upx"
)

// Runner abstracts the packaging tool client for tests.
type Runner interface {
	Invocation(args []string) []string
	Build(ctx context.Context, args []string, workDir string, onLine func(string)) (int, error)
}

// Recorder persists terminal sessions. Recording is best-effort; the engine
// works without it.
type Recorder interface {
	Record(ctx context.Context, rec history.Record) error
}

// Option configures the engine.
type Option func(*Engine)

// WithRunner injects a custom packaging tool client (primarily for tests).
func WithRunner(runner Runner) Option {
	return func(e *Engine) {
		if runner != nil {
			e.runner = runner
		}
	}
}

// WithRecorder attaches a session history store.
func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

// WithCatalog overrides the diagnostic message catalog.
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(e *Engine) {
		if catalog != nil {
			e.catalog = catalog
		}
	}
}

// Engine runs one build at a time. Starting a build while another session is
// not yet terminal fails fast with ErrAlreadyRunning; nothing ever queues.
type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	runner     Runner
	classifier *diagnose.Classifier
	catalog    *i18n.Catalog
	recorder   Recorder
	lock       *flock.Flock

	mu     sync.Mutex
	active *Session
}

// New constructs an engine from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("engine requires config")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "engine"),
		catalog: i18n.Load(cfg.Language),
		lock:    flock.New(cfg.LockPath()),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runner == nil {
		client, err := pyinstaller.New(
			cfg.Tool.Python,
			cfg.Tool.Module,
			pyinstaller.WithKillGrace(time.Duration(cfg.Tool.KillGraceSeconds)*time.Second),
		)
		if err != nil {
			return nil, err
		}
		e.runner = client
	}
	e.classifier = diagnose.NewClassifier(e.catalog, cfg.Tool.Python)
	return e, nil
}

// Start validates the options and launches the build on its own goroutine.
// The returned session is already Composing; observe it through the sink or
// its Done channel.
func (e *Engine) Start(ctx context.Context, opts buildspec.Options, sink Sink) (*Session, error) {
	if sink == nil {
		sink = nopSink{}
	}
	opts = opts.Normalized()

	e.mu.Lock()
	if e.active != nil && !e.active.State().Terminal() {
		e.mu.Unlock()
		return nil, Wrap(ErrAlreadyRunning, "start", "a session is still active", nil)
	}
	locked, err := e.lock.TryLock()
	if err != nil {
		e.mu.Unlock()
		return nil, Wrap(nil, "start", "acquire build lock", err)
	}
	if !locked {
		e.mu.Unlock()
		return nil, Wrap(ErrAlreadyRunning, "start", "another pybundle process holds the build lock", nil)
	}
	session := newSession(opts)
	e.active = session
	e.mu.Unlock()

	session.transition(StateComposing)
	e.logger.Info("build session started",
		logging.String("session_id", session.ID()),
		logging.String("script", opts.Script),
	)

	go e.run(ctx, session, sink)
	return session, nil
}

// Cancel requests termination of the active build's process tree. The
// session is steered to Cancelled regardless of how the process exits.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	session := e.active
	e.mu.Unlock()
	if session == nil || !session.requestCancel() {
		return ErrNoActiveBuild
	}
	e.logger.Info("build cancel requested", logging.String("session_id", session.ID()))
	return nil
}

// Active returns the most recent session, terminal or not.
func (e *Engine) Active() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) run(ctx context.Context, session *Session, sink Sink) {
	forwarder := newLineForwarder(sink)

	finish := func(state State, advisory *diagnose.Diagnostic) {
		forwarder.Close()
		forwarder.Wait()
		session.finish(state, advisory)
		if err := e.lock.Unlock(); err != nil {
			e.logger.Warn("release build lock", logging.Error(err))
		}
		result := session.Result()
		e.record(result, session)
		e.logger.Info("build session finished",
			logging.String("session_id", session.ID()),
			logging.String("outcome", string(result.Outcome)),
			logging.Int("exit_code", result.ExitCode),
			logging.Duration("duration", result.Duration),
		)
		sink.Done(result)
	}

	opts := session.Options()
	if detail, ok := e.validate(opts); !ok {
		finish(StateFailed, diagnose.FromValidationError(e.catalog, detail))
		return
	}

	args, err := e.compose(opts)
	if err != nil {
		finish(StateFailed, diagnose.FromValidationError(e.catalog, err.Error()))
		return
	}

	// Echo the full command line as the first transcript line, so the log
	// always states what actually ran.
	echo := strings.Join(e.runner.Invocation(args), " ")
	session.appendLine(echo)
	forwarder.Push(echo)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	session.bindCancel(cancel)
	session.transition(StateRunning)

	workDir := filepath.Dir(opts.Script)
	exitCode, err := e.runner.Build(runCtx, args, workDir, func(line string) {
		session.appendLine(line)
		forwarder.Push(line)
	})

	if session.cancelWasRequested() || errors.Is(err, context.Canceled) {
		finish(StateCancelled, nil)
		return
	}
	if err != nil {
		e.logger.Error("packaging tool failed", logging.Error(err))
		finish(StateFailed, diagnose.FromSpawnError(e.catalog, e.cfg.Tool.Python, err))
		return
	}

	session.setExitCode(exitCode)
	session.transition(StateClassifying)
	advisory := e.classifier.Classify(session.Lines(), exitCode)
	if exitCode == 0 {
		finish(StateSucceeded, nil)
		return
	}
	finish(StateFailed, advisory)
}

// validate applies the checks that must hold before any process spawns.
func (e *Engine) validate(opts buildspec.Options) (string, bool) {
	if opts.Script == "" {
		return "script path required", false
	}
	info, err := os.Stat(opts.Script)
	if err != nil {
		return fmt.Sprintf("script not found: %s", opts.Script), false
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(opts.Script), ".py") {
		return fmt.Sprintf("script must be an existing .py file: %s", opts.Script), false
	}
	if opts.OutputDir == "" {
		return "output directory required", false
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Sprintf("create output directory: %v", err), false
	}
	return "", true
}

func (e *Engine) compose(opts buildspec.Options) ([]string, error) {
	bundledDir := ""
	if opts.UPX.Enabled && opts.UPX.CustomDir == "" {
		if dir, ok := upx.ResolveBundled(e.cfg.UPX.BundledDir); ok {
			bundledDir = dir
			e.logger.Debug("bundled compressor resolved", logging.String("dir", dir))
		} else {
			// Deliberate non-fatal degradation: the tool searches its own
			// defaults when no directory argument is passed.
			e.logger.Debug("bundled compressor not found; leaving lookup to the tool")
		}
	}
	return buildspec.Compose(opts, bundledDir)
}

func (e *Engine) record(result Result, session *Session) {
	if e.recorder == nil {
		return
	}
	opts := session.Options()
	rec := history.Record{
		SessionID:  result.SessionID,
		Script:     opts.Script,
		OutputDir:  opts.OutputDir,
		Mode:       string(opts.Mode),
		Runtime:    string(opts.Runtime),
		Name:       opts.ExecutableName(),
		Outcome:    string(result.Outcome),
		ExitCode:   result.ExitCode,
		Duration:   result.Duration,
		FinishedAt: time.Now().UTC(),
	}
	if result.Diagnostic != nil {
		rec.SignatureID = string(result.Diagnostic.ID)
		rec.Advisory = result.Diagnostic.Message
	}
	recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.recorder.Record(recordCtx, rec); err != nil {
		e.logger.Warn("record session history", logging.Error(err))
	}
}
