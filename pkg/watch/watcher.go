// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package watch polls the Foundry agent on an interval and logs state
// transitions: agent reachability, per-pool health changes, and pools
// filling past the capacity threshold. It keeps no history beyond the
// previous round; the log stream is the record.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stratastor/logger"
	"golang.org/x/sync/errgroup"

	"github.com/ferrostor/ferret/config"
	"github.com/ferrostor/ferret/pkg/errors"
	"github.com/ferrostor/ferret/pkg/format"
	"github.com/ferrostor/ferret/pkg/foundry"
)

// capacityWarnPercent is the fill level at which a pool gets flagged.
const capacityWarnPercent = 80

type poolRecord struct {
	health   string
	capacity uint8
	flagged  bool
}

// Watcher runs the polling loop. One round probes agent health; when the
// agent is reachable it fans out a status call per pool.
type Watcher struct {
	client    *foundry.Client
	log       logger.Logger
	interval  time.Duration
	scheduler gocron.Scheduler

	mu      sync.Mutex
	agentUp bool
	status  string
	pools   map[string]poolRecord
	rounds  uint64
}

// New creates a watcher polling at the given interval.
func New(client *foundry.Client, interval time.Duration) (*Watcher, error) {
	l, err := logger.NewTag(config.NewLoggerConfig(config.GetConfig()), "watch")
	if err != nil {
		return nil, errors.Wrap(err, errors.LoggerError)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, errors.SchedulerError)
	}

	return &Watcher{
		client:    client,
		log:       l,
		interval:  interval,
		scheduler: scheduler,
		agentUp:   true, // first unreachable round logs the transition
		pools:     make(map[string]poolRecord),
	}, nil
}

// Start schedules the polling job and blocks until ctx is cancelled. The
// first round runs immediately rather than one interval in.
func (w *Watcher) Start(ctx context.Context) error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			roundCtx, cancel := context.WithTimeout(ctx, w.interval)
			defer cancel()
			w.tick(roundCtx)
		}),
		gocron.WithName("agent-watch"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.Wrap(err, errors.SchedulerError)
	}

	w.log.Info("Watch started",
		"interval", w.interval.String(),
		"agent", w.client.Config().BaseURL())
	w.scheduler.Start()

	<-ctx.Done()
	return w.Stop()
}

// Stop shuts the scheduler down, waiting for a running round to finish.
func (w *Watcher) Stop() error {
	if err := w.scheduler.Shutdown(); err != nil {
		return errors.Wrap(err, errors.SchedulerError)
	}
	return nil
}

// tick runs a single poll round.
func (w *Watcher) tick(ctx context.Context) {
	w.mu.Lock()
	w.rounds++
	w.mu.Unlock()

	hs, err := w.client.Health(ctx)
	if err != nil {
		w.noteAgentDown(err)
		return
	}
	w.noteAgentUp(hs)

	pools, err := w.client.ListPools(ctx)
	if err != nil {
		w.log.Warn("Pool listing failed", "error", err)
		return
	}

	statuses, err := w.collect(ctx, pools)
	if err != nil {
		w.log.Warn("Pool status round failed", "error", err)
		return
	}
	w.notePools(statuses)
}

// collect fans out one status call per pool and waits for all of them. A
// single failure abandons the round; partial rounds would make transition
// tracking report pools as vanished.
func (w *Watcher) collect(ctx context.Context, pools []string) ([]*foundry.PoolStatus, error) {
	statuses := make([]*foundry.PoolStatus, len(pools))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range pools {
		g.Go(func() error {
			st, err := w.client.PoolStatus(gctx, name)
			if err != nil {
				return err
			}
			statuses[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (w *Watcher) noteAgentDown(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.agentUp {
		w.log.Error("Agent unreachable", "error", err)
	}
	w.agentUp = false
	w.status = ""
}

func (w *Watcher) noteAgentUp(hs *foundry.HealthStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.agentUp {
		w.log.Info("Agent reachable again", "status", hs.Status, "version", hs.Version)
	}
	if w.status != "" && w.status != hs.Status {
		w.log.Warn("Agent health changed", "from", w.status, "to", hs.Status)
	}
	w.agentUp = true
	w.status = hs.Status
}

func (w *Watcher) notePools(statuses []*foundry.PoolStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		seen[st.Name] = true
		prev, known := w.pools[st.Name]

		if !known {
			w.log.Info("Pool discovered",
				"pool", st.Name,
				"health", st.Health,
				"size", format.Bytes(st.Size),
				"capacity", format.Percent(st.Capacity))
		} else if prev.health != st.Health {
			w.log.Warn("Pool health changed",
				"pool", st.Name, "from", prev.health, "to", st.Health)
		}

		flagged := prev.flagged
		if st.Capacity >= capacityWarnPercent && !flagged {
			w.log.Warn("Pool filling up",
				"pool", st.Name,
				"capacity", format.Percent(st.Capacity),
				"free", format.SignedBytes(st.Free))
			flagged = true
		} else if st.Capacity < capacityWarnPercent && flagged {
			w.log.Info("Pool capacity back below threshold",
				"pool", st.Name, "capacity", format.Percent(st.Capacity))
			flagged = false
		}

		w.pools[st.Name] = poolRecord{
			health:   st.Health,
			capacity: st.Capacity,
			flagged:  flagged,
		}
	}

	for name := range w.pools {
		if !seen[name] {
			w.log.Info("Pool gone", "pool", name)
			delete(w.pools, name)
		}
	}
}
