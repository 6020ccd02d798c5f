// Package engine ties the solver, the calculator, the schedule cache and the
// planner together behind one value that hosts can share between goroutines.
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/smokyabdulrahman/salah/internal/astro"
	"github.com/smokyabdulrahman/salah/internal/cache"
	"github.com/smokyabdulrahman/salah/internal/calendar"
	"github.com/smokyabdulrahman/salah/internal/prayer"
	"github.com/smokyabdulrahman/salah/internal/recalc"
	"github.com/smokyabdulrahman/salah/internal/schedule"
)

// Engine computes and caches schedules. It is safe for concurrent use.
type Engine struct {
	cache *cache.Cache
	log   *zap.SugaredLogger
}

type config struct {
	log       *zap.SugaredLogger
	cacheSize int
}

// Option configures New.
type Option func(*config)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCacheSize sets how many schedules are kept.
func WithCacheSize(n int) Option {
	return func(c *config) { c.cacheSize = n }
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	cfg := config{
		log:       zap.NewNop().Sugar(),
		cacheSize: cache.DefaultSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c, err := cache.New(cfg.cacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine{cache: c, log: cfg.log}, nil
}

// Schedule returns the prayer times for date at loc under m. Each distinct
// input is computed once; later calls are served from the cache.
func (e *Engine) Schedule(date calendar.Date, loc astro.Location, m prayer.Method) (prayer.Schedule, error) {
	key := cache.KeyFor(date, loc, m)
	return e.cache.GetOrCompute(key, func() (prayer.Schedule, error) {
		day, err := astro.Solve(date, loc)
		if err != nil {
			return prayer.Schedule{}, err
		}
		s := prayer.Calculate(day, m)

		e.log.Debugw("computed schedule", "date", date.String(), "location", loc.String(), "method", m.Key, "key", string(key))
		for _, p := range s.Prayers {
			switch {
			case p.Err != nil:
				e.log.Debugw("prayer time unavailable", "date", date.String(), "prayer", p.Name.String(), "reason", p.Err.Error())
			case p.Adjusted:
				e.log.Debugw("high-latitude rule applied", "date", date.String(), "prayer", p.Name.String(), "rule", m.HighLatRule.String())
			}
		}
		return s, nil
	})
}

// Plan builds the plan for the local day containing now in zone.
func (e *Engine) Plan(now time.Time, zone *time.Location, loc astro.Location, m prayer.Method, opts ...schedule.Option) (schedule.Plan, error) {
	if zone == nil {
		zone = time.UTC
	}
	today := calendar.DateOf(now.In(zone))

	s1, err := e.Schedule(today, loc, m)
	if err != nil {
		return schedule.Plan{}, err
	}
	s2, err := e.Schedule(today.AddDays(1), loc, m)
	if err != nil {
		return schedule.Plan{}, err
	}
	return schedule.BuildPlan(s1, s2, now, append([]schedule.Option{schedule.WithZone(zone)}, opts...)...)
}

// Refresh returns a plan valid for now. An unchanged plan is returned as is;
// when only the day advanced, the previous Tomorrow becomes Today and only
// the new Tomorrow is computed. Anything else is rebuilt from scratch.
func (e *Engine) Refresh(prev schedule.Plan, now time.Time, loc astro.Location, m prayer.Method) (schedule.Plan, recalc.Decision, error) {
	d := schedule.Staleness(prev, now, loc, m)
	opts := []schedule.Option{
		schedule.WithZone(prev.Zone),
		schedule.WithPrayers(prev.Prayers...),
		schedule.WithReminder(prev.Lead),
		schedule.WithMoveThreshold(prev.Threshold),
	}

	var (
		next schedule.Plan
		err  error
	)
	switch d.Kind {
	case recalc.None:
		return prev, d, nil
	case recalc.DateRoll:
		today := prev.Tomorrow
		var tomorrow prayer.Schedule
		tomorrow, err = e.Schedule(today.Date.AddDays(1), today.Location, today.Method)
		if err != nil {
			return prev, d, err
		}
		next, err = schedule.BuildPlan(today, tomorrow, now, opts...)
	default:
		next, err = e.Plan(now, prev.Zone, loc, m, opts...)
	}
	if err != nil {
		return prev, d, fmt.Errorf("refresh plan: %w", err)
	}

	e.log.Debugw("plan refreshed", "kind", d.Kind.String(), "reason", d.Reason, "date", next.Key.Date.String())
	return next, d, nil
}

// LocalPrayer is a prayer read on the wall clock of a zone.
type LocalPrayer struct {
	prayer.Prayer
	Local calendar.LocalTime
}

// Local converts every entry of s to zone. Times that read the same on the
// wall clock twice, because of a DST overlap, are logged as warnings.
func (e *Engine) Local(s prayer.Schedule, zone *time.Location) []LocalPrayer {
	instants := make([]time.Time, len(s.Prayers))
	for i, p := range s.Prayers {
		if p.Resolved() {
			instants[i] = p.Time
		}
	}

	local := calendar.ToLocal(instants, zone)
	out := make([]LocalPrayer, len(s.Prayers))
	for i, p := range s.Prayers {
		out[i] = LocalPrayer{Prayer: p.In(zone), Local: local[i]}
		if local[i].Ambiguous {
			e.log.Warnw("ambiguous local time",
				"prayer", p.Name.String(),
				"wall", local[i].Wall.Format("2006-01-02 15:04:05"),
				"abbrev", local[i].Abbrev,
				"zone", zone.String(),
			)
		}
	}
	return out
}

// Stats describes the engine's cache.
type Stats struct {
	Computations int64 `json:"computations"`
	Cached       int   `json:"cached"`
}

// Stats returns cache counters.
func (e *Engine) Stats() Stats {
	return Stats{Computations: e.cache.Computations(), Cached: e.cache.Len()}
}
