package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/rerange/internal/accounts"
	"github.com/dmitrijs2005/rerange/internal/ai"
	"github.com/dmitrijs2005/rerange/internal/config"
	"github.com/dmitrijs2005/rerange/internal/logging"
	"github.com/dmitrijs2005/rerange/internal/notify"
	"github.com/dmitrijs2005/rerange/internal/persistence"
	"github.com/dmitrijs2005/rerange/internal/pomodoro"
	"github.com/dmitrijs2005/rerange/internal/reminders"
	"github.com/dmitrijs2005/rerange/internal/repositories/kv"
	"github.com/dmitrijs2005/rerange/internal/store"
	"github.com/dmitrijs2005/rerange/internal/timex"
)

// shutdownTimeout bounds the final flush after the loop ends.
const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	store  *store.Store
	timer  *pomodoro.Timer
	kv     kv.Store
	meta   metaLoader
	reader *bufio.Reader
	out    io.Writer

	// pomodoro lengths currently applied to timer
	workMin, breakMin int
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, c.LogFormat)

	backend, err := kv.Open(ctx, kv.Options{
		Backend:  c.StorageBackend,
		DSN:      c.StorageDSN,
		RedisURL: c.RedisURL,
		Prefix:   c.StoragePrefix,
		S3: kv.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	clock := timex.SystemClock{}
	notifier := notify.NewConsole(os.Stdout, true)

	dir := accounts.New(
		accounts.WithCodes(c.AcceptedCodes),
		accounts.WithSubscriptionPeriod(c.SubscriptionPeriod),
	)
	sched := reminders.New(notifier, logger.With("component", "reminders"))
	persister := persistence.New(backend, []byte(c.SessionSecret), logger.With("component", "persistence"),
		persistence.WithSealKey(c.StorageKey))

	opts := []store.Option{
		store.WithPersister(persister),
		store.WithNotifier(notifier),
		store.WithLogger(logger.With("component", "store")),
	}
	if c.AIAPIKey != "" {
		opts = append(opts, store.WithAssistant(ai.NewGemini(ai.Config{
			APIKey:        c.AIAPIKey,
			Model:         c.AIModel,
			Endpoint:      c.AIEndpoint,
			Timeout:       c.AITimeout,
			RatePerMinute: c.AIRatePerMinute,
		}, logger.With("component", "ai"))))
	}

	app := &App{
		config: c,
		logger: logger,
		store:  store.New(dir, sched, opts...),
		kv:     backend,
		meta:   persister,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	settings := app.store.Settings()
	app.workMin, app.breakMin = settings.PomodoroWork, settings.PomodoroBreak
	app.timer = pomodoro.New(notifier, clock, logger.With("component", "pomodoro"), app.workMin, app.breakMin)

	return app, nil
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run restores the previous session and serves commands until the user
// exits or the process is signalled. State is flushed before returning.
func (a *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	a.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	if a.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.startMetricsServer(ctx, a.config.MetricsAddr); err != nil {
				a.logger.Error(ctx, "metrics server failed", "error", err)
			}
		}()
	}

	if err := a.store.Restore(ctx); err != nil {
		a.logger.Error(ctx, "failed to restore state", "error", err)
	}
	a.syncPomodoro()

	printlnFn("Welcome to RERANGE (type 'help' for commands)")
	if acc, ok := a.store.CurrentAccount(); ok {
		printlnFn("Signed in as", acc.Email)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.getStatus, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		printlnFn("\nShutting down...")
	}
	cancelFunc()

	err := a.Close()
	wg.Wait()
	return err
}

// Close flushes the session and releases the storage backend.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.timer.Stop()

	if err := a.store.Close(ctx); err != nil {
		a.logger.Error(ctx, "failed to flush state", "error", err)
		_ = a.kv.Close()
		return err
	}
	return a.kv.Close()
}

func (a *App) isLoggedIn() bool {
	return a.store.IsActive()
}

func (a *App) getStatus() string {
	acc, ok := a.store.CurrentAccount()
	if !ok {
		return ""
	}
	st := a.timer.Status()
	if st.Running {
		return fmt.Sprintf("(%s %s %s)", acc.Email, st.Phase, formatClock(st.Remaining))
	}
	return fmt.Sprintf("(%s)", acc.Email)
}

// syncPomodoro applies the active settings to the timer when they differ
// from what it runs with.
func (a *App) syncPomodoro() {
	s := a.store.Settings()
	if s.PomodoroWork == a.workMin && s.PomodoroBreak == a.breakMin {
		return
	}
	a.workMin, a.breakMin = s.PomodoroWork, s.PomodoroBreak
	a.timer.SetDurations(a.workMin, a.breakMin)
}
