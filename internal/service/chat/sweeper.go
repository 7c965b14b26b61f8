package chat

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"bsu_chat_server/pkg/constants"
	"bsu_chat_server/pkg/util/timezone"

	"go.uber.org/zap"
)

const (
	defaultRetentionTime = 60
	defaultRetentionUnit = "minutes"
)

// RetentionWindow turns a retention setting pair into a duration. "hours"
// counts hours; any other unit counts minutes. An unset or unparseable time
// falls back to fallback. A parsed time of zero or less is kept, so the
// window retains nothing.
func RetentionWindow(value, unit string, fallback int) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		n = fallback
		if n <= 0 {
			n = defaultRetentionTime
		}
	}
	if strings.TrimSpace(unit) == "hours" {
		return time.Duration(n) * time.Hour
	}
	return time.Duration(n) * time.Minute
}

// SweeperConfig configures the expiry sweeper.
type SweeperConfig struct {
	Store    *MessageStore
	Settings SettingsReader
	Interval time.Duration
	// DefaultTime and DefaultUnit apply when a retention setting is unset.
	DefaultTime int
	DefaultUnit string
	// Now is the clock, timezone.Now when nil.
	Now func() time.Time
}

// Sweeper periodically prunes messages past their retention window.
type Sweeper struct {
	store       *MessageStore
	settings    SettingsReader
	interval    time.Duration
	defaultTime int
	defaultUnit string
	now         func() time.Time

	started  atomic.Bool
	sweeping atomic.Bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper builds a stopped sweeper.
func NewSweeper(cfg SweeperConfig) *Sweeper {
	s := &Sweeper{
		store:       cfg.Store,
		settings:    cfg.Settings,
		interval:    cfg.Interval,
		defaultTime: cfg.DefaultTime,
		defaultUnit: cfg.DefaultUnit,
		now:         cfg.Now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	if s.interval <= 0 {
		s.interval = time.Minute
	}
	if s.defaultTime <= 0 {
		s.defaultTime = defaultRetentionTime
	}
	if s.defaultUnit == "" {
		s.defaultUnit = defaultRetentionUnit
	}
	if s.now == nil {
		s.now = timezone.Now
	}
	return s
}

// Start runs the tick loop in the background until Stop.
func (s *Sweeper) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.loop()
}

func (s *Sweeper) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	zap.L().Info("message sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			// each tick runs on its own goroutine so a slow settings read
			// never shifts the schedule; overlapping ticks are skipped
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), s.interval)
				defer cancel()
				s.Sweep(ctx)
			}()
		}
	}
}

// Stop ends the loop and waits for it to exit. A sweep already in flight
// finishes on its own.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	if s.started.Load() {
		<-s.done
	}
}

// Sweep runs one pruning pass. It returns false when the pass was skipped,
// either because another pass is still running or because the retention
// settings could not be read.
func (s *Sweeper) Sweep(ctx context.Context) bool {
	if !s.sweeping.CompareAndSwap(false, true) {
		zap.L().Warn("previous sweep still running, skipping tick")
		return false
	}
	defer s.sweeping.Store(false)

	values, err := s.settings.GetValues(ctx,
		constants.SettingGroupMessageDeleteTime,
		constants.SettingGroupMessageDeleteUnit,
		constants.SettingPrivateMessageDeleteTime,
		constants.SettingPrivateMessageDeleteUnit,
	)
	if err != nil {
		zap.L().Error("read retention settings failed, skipping sweep", zap.Error(err))
		return false
	}

	groupWindow := RetentionWindow(
		values[constants.SettingGroupMessageDeleteTime],
		s.unitOrDefault(values[constants.SettingGroupMessageDeleteUnit]),
		s.defaultTime,
	)
	privateWindow := RetentionWindow(
		values[constants.SettingPrivateMessageDeleteTime],
		s.unitOrDefault(values[constants.SettingPrivateMessageDeleteUnit]),
		s.defaultTime,
	)

	now := s.now()
	groupRemoved := s.store.PruneGroups(now, groupWindow)
	privateRemoved := s.store.PrunePrivates(now, privateWindow)
	if groupRemoved > 0 || privateRemoved > 0 {
		zap.L().Info("expired messages pruned",
			zap.Int("group", groupRemoved),
			zap.Int("private", privateRemoved),
			zap.Duration("group_window", groupWindow),
			zap.Duration("private_window", privateWindow),
		)
	}
	return true
}

func (s *Sweeper) unitOrDefault(unit string) string {
	if strings.TrimSpace(unit) == "" {
		return s.defaultUnit
	}
	return unit
}
