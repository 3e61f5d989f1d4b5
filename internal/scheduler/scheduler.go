package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"PatternScout/internal/collector"
	"PatternScout/internal/metrics"
	"PatternScout/internal/model"
	"PatternScout/internal/notifier"
	"PatternScout/internal/publisher"
	"PatternScout/internal/recorder"
	"PatternScout/internal/state"
	"PatternScout/internal/strategy"
	"PatternScout/pkg/errors"
	"PatternScout/pkg/logger"
)

const notifyRetries = 3

// Notifier delivers formatted messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Deps are the collaborators of a Scheduler.
type Deps struct {
	Collector *collector.Collector
	Engine    *strategy.Engine
	Recorder  recorder.Recorder
	Publisher publisher.Publisher
	Notifier  Notifier
	State     *state.Store
	Metrics   *metrics.Metrics
}

// Scheduler runs every configured analysis on its own cron schedule.
type Scheduler struct {
	Deps
	cron    *cron.Cron
	ctx     context.Context
	watches []model.Watch
	locks   map[string]*sync.Mutex
	log     *logger.Logger
	now     func() time.Time
}

func NewScheduler(ctx context.Context, deps Deps, watches []model.Watch, log *logger.Logger) *Scheduler {
	locks := make(map[string]*sync.Mutex, len(watches))
	for _, w := range watches {
		locks[w.Name] = &sync.Mutex{}
	}
	return &Scheduler{
		Deps:    deps,
		cron:    cron.New(cron.WithSeconds()),
		ctx:     ctx,
		watches: watches,
		locks:   locks,
		log:     log.With("component", "scheduler"),
		now:     time.Now,
	}
}

// RegisterAll adds one cron job per watch.
func (s *Scheduler) RegisterAll() error {
	for _, w := range s.watches {
		w := w
		if _, err := s.cron.AddFunc(w.Cron, func() { s.runScheduled(w) }); err != nil {
			return errors.Wrapf(errors.ErrInvalidConfig, "register %s (%q): %v", w.Name, w.Cron, err)
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("Scheduler started with %d analyses", len(s.watches))
}

// Stop stops the cron and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

// RunAll runs every watch once, sequentially.
func (s *Scheduler) RunAll(ctx context.Context) {
	for _, w := range s.watches {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.RunNow(ctx, w.Name); err != nil {
			s.log.Errorf("run %s: %v", w.Name, err)
		}
	}
}

// RunNow runs the named watch immediately. It fails when the watch is
// unknown or already running.
func (s *Scheduler) RunNow(ctx context.Context, name string) (*recorder.Run, error) {
	w, ok := s.watch(name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "analysis %q", name)
	}
	mu := s.locks[w.Name]
	if !mu.TryLock() {
		return nil, fmt.Errorf("analysis %q is already running", name)
	}
	defer mu.Unlock()
	return s.run(ctx, w)
}

func (s *Scheduler) runScheduled(w model.Watch) {
	mu := s.locks[w.Name]
	if !mu.TryLock() {
		s.log.Warnf("skipping %s: previous run still in progress", w.Name)
		return
	}
	defer mu.Unlock()
	if _, err := s.run(s.ctx, w); err != nil {
		s.log.Errorf("run %s: %v", w.Name, err)
	}
}

// run fetches, analyses, records, publishes and notifies one watch.
func (s *Scheduler) run(ctx context.Context, w model.Watch) (*recorder.Run, error) {
	log := s.log.With("watch", w.Name)
	started := s.now()
	run := recorder.NewRun(w, started)

	series, err := s.Collector.Collect(ctx, w)
	if err == nil {
		run.Candles = len(series)
		run.Report, err = s.Engine.Analyze(ctx, series, w.Analysis)
	} else {
		s.Metrics.FetchErrors.WithLabelValues(s.Collector.Fetcher.Name()).Inc()
	}
	run.Duration = s.now().Sub(started)
	if err != nil {
		run.Err = err.Error()
	}

	if recErr := s.Recorder.RecordRun(ctx, run); recErr != nil {
		log.Errorf("record run: %v", recErr)
	}
	s.Metrics.ObserveRun(w.Name, started, run.Duration, err)

	if err != nil {
		s.send(ctx, notifier.FormatFailure(w, err))
		return run, err
	}

	if len(series) == 0 {
		log.Warn("no candles returned")
		return run, nil
	}

	fresh := s.State.Unseen(w.Name, run.Report.Signals())
	notify := fresh
	if !s.State.Known(w.Name) {
		// First run of a watch: history is recorded silently.
		notify = onCandle(fresh, series[len(series)-1].Timestamp)
	}

	if len(fresh) > 0 {
		events := publisher.Events(run.ID.String(), w, fresh, s.now())
		if pubErr := s.Publisher.Publish(ctx, events); pubErr != nil {
			log.Errorf("publish signals: %v", pubErr)
		}
	}

	if len(notify) > 0 {
		if sendErr := s.send(ctx, notifier.FormatSignals(w, series, notify, run.Report)); sendErr != nil {
			// Leave the signals unmarked so the next run retries them.
			return run, nil
		}
		for _, sig := range notify {
			s.Metrics.Signals.WithLabelValues(w.Name, string(sig.Direction)).Inc()
		}
	}

	if markErr := s.State.Mark(w.Name, fresh, series[0].Timestamp); markErr != nil {
		log.Errorf("save notify state: %v", markErr)
	}
	log.Infof("run finished: %d candles, %d buy, %d sell, %d new", run.Candles, len(run.Report.Buy), len(run.Report.Sell), len(notify))
	return run, nil
}

// HandleCommand answers a chat command.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/list":
		return notifier.FormatWatchList(s.watches)
	case "/run":
		if arg == "" {
			return "Usage: /run &lt;name&gt;"
		}
		run, err := s.RunNow(ctx, arg)
		if run == nil {
			return fmt.Sprintf("⚠️ %v", err)
		}
		return notifier.FormatRun(run, s.now())
	case "/last":
		if arg == "" {
			return "Usage: /last &lt;name&gt;"
		}
		if _, ok := s.watch(arg); !ok {
			return fmt.Sprintf("Unknown analysis %q", arg)
		}
		run, err := s.Recorder.LastRun(ctx, arg)
		if errors.Is(err, errors.ErrNotFound) {
			return fmt.Sprintf("No runs recorded for %s yet.", arg)
		}
		if err != nil {
			s.log.Errorf("last run %s: %v", arg, err)
			return "⚠️ failed to load the last run"
		}
		return notifier.FormatRun(run, s.now())
	default:
		return helpText
	}
}

const helpText = "Commands:\n• /list\n• /run &lt;name&gt;\n• /last &lt;name&gt;"

func (s *Scheduler) watch(name string) (model.Watch, bool) {
	for _, w := range s.watches {
		if w.Name == name {
			return w, true
		}
	}
	return model.Watch{}, false
}

func (s *Scheduler) send(ctx context.Context, text string) error {
	err := s.Notifier.SendWithRetry(ctx, text, notifyRetries)
	if err != nil {
		s.log.Errorf("send notification: %v", err)
	}
	return err
}

func onCandle(signals []model.Signal, ts int64) []model.Signal {
	var out []model.Signal
	for _, sig := range signals {
		if sig.Timestamp == ts {
			out = append(out, sig)
		}
	}
	return out
}
