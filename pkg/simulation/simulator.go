package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sherine-k/queuesim/pkg/config"
	"github.com/sirupsen/logrus"
)

// Snapshot instants are laid out on a calendar starting at this epoch, one
// simulated time unit per config.TimeUnit.
var snapshotEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const maxSnapshots = 100000

// maxEvents bounds the stored non-warning events. Counts stay exact past it.
var maxEvents = 10000

// Simulator runs the queue simulation
type Simulator struct {
	config    *config.Config
	sampler   Sampler
	state     State
	events    []Event
	counts    map[EventType]int
	snapshots []Snapshot

	schedule     cron.Schedule
	nextSnapshot time.Time
}

// NewSimulator creates a new simulator. A nil sampler is replaced by an
// ExpSampler seeded from cfg.Seed.
func NewSimulator(cfg *config.Config, sampler Sampler) *Simulator {
	if sampler == nil {
		sampler = NewExpSampler(cfg.Seed)
	}
	return &Simulator{
		config:    cfg,
		sampler:   sampler,
		events:    []Event{},
		counts:    map[EventType]int{},
		snapshots: []Snapshot{},
	}
}

// Run executes the simulation
func (s *Simulator) Run(ctx context.Context) error {
	if err := config.Validate(s.config); err != nil {
		return err
	}

	if s.config.SnapshotSchedule != "" {
		schedule, err := config.ParseSchedule(s.config.SnapshotSchedule)
		if err != nil {
			return fmt.Errorf("failed to parse snapshot schedule: %w", err)
		}
		s.schedule = schedule
		s.nextSnapshot = schedule.Next(snapshotEpoch.Add(-time.Second))
	}

	s.state = NewState(s.config.NumServers)
	s.events = []Event{}
	s.counts = map[EventType]int{}
	s.snapshots = []Snapshot{}
	horizon := s.config.Horizon

	logrus.Infof("Starting simulation: lambda=%.4f mu=%.4f servers=%d horizon=%.2f",
		s.config.ArrivalRate, s.config.ServiceRate, s.config.NumServers, horizon)

	if s.config.NumServers == 0 {
		s.addEvent(Event{
			Type:      EventTypeServersExhausted,
			Message:   "No servers configured, no customer will be served",
			IsWarning: true,
		})
	}

	for s.state.Clock < horizon {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation aborted at t=%.2f: %w", s.state.Clock, err)
		}

		prev := s.state
		servedBefore := len(prev.Finalized)
		freeBefore := prev.FreeServers

		next := Step(prev, s.sampler, s.config.ArrivalRate, s.config.ServiceRate)

		// Instants strictly before this arrival still see the previous state
		s.takeSnapshots(next.Clock, false, horizon)
		s.state = next
		s.recordStep(servedBefore, freeBefore)
	}

	s.takeSnapshots(horizon, true, horizon)

	if pending := len(s.state.Queue); pending > 0 {
		s.addEvent(Event{
			Clock:       s.state.Clock,
			Type:        EventTypeStranded,
			CustomerID:  s.state.Queue[0].ID,
			FreeServers: s.state.FreeServers,
			Pending:     pending,
			Message:     fmt.Sprintf("%d customers still waiting at end of run", pending),
			IsWarning:   true,
		})
	}

	logrus.Infof("Simulation ended at t=%.2f: %d arrived, %d served, %d waiting",
		s.state.Clock, s.state.NextID, len(s.state.Finalized), len(s.state.Queue))

	return nil
}

// recordStep turns the difference between the last two states into events
func (s *Simulator) recordStep(servedBefore, freeBefore int) {
	st := s.state
	id := st.NextID - 1

	logrus.Debugf("[t=%10.4f] customer %d arrived", st.Clock, id)
	s.addEvent(Event{
		Clock:       st.Clock,
		Type:        EventTypeArrival,
		CustomerID:  id,
		FreeServers: freeBefore,
		Pending:     len(st.Queue) + len(st.Finalized) - servedBefore,
		Message:     fmt.Sprintf("Customer %d arrived", id),
	})

	free := freeBefore
	for _, rec := range st.Finalized[servedBefore:] {
		free--
		logrus.Debugf("[t=%10.4f] customer %d served until %.4f", st.Clock, rec.ID, rec.DepartureTime)
		s.addEvent(Event{
			Clock:       st.Clock,
			Type:        EventTypeServiceStarted,
			CustomerID:  rec.ID,
			FreeServers: free,
			Pending:     len(st.Queue),
			Message:     fmt.Sprintf("Customer %d started service (departs at %.2f)", rec.ID, rec.DepartureTime),
		})
	}

	if freeBefore > 0 && st.FreeServers == 0 {
		s.addEvent(Event{
			Clock:     st.Clock,
			Type:      EventTypeServersExhausted,
			Message:   fmt.Sprintf("All %d servers taken, later customers will wait indefinitely", s.config.NumServers),
			IsWarning: true,
		})
	}
}

// takeSnapshots records the current state for every scheduled instant up to
// limit (inclusive or not) that does not exceed the horizon.
func (s *Simulator) takeSnapshots(limit float64, inclusive bool, horizon float64) {
	if s.schedule == nil {
		return
	}

	for len(s.snapshots) < maxSnapshots {
		at := s.simTime(s.nextSnapshot)
		if at > horizon || at > limit || (!inclusive && at == limit) {
			return
		}

		s.snapshots = append(s.snapshots, Snapshot{
			Clock:       at,
			Pending:     len(s.state.Queue),
			Served:      len(s.state.Finalized),
			FreeServers: s.state.FreeServers,
		})
		s.nextSnapshot = s.schedule.Next(s.nextSnapshot)
	}
}

// simTime converts a calendar instant into simulated time units
func (s *Simulator) simTime(t time.Time) float64 {
	return float64(t.Sub(snapshotEpoch)) / float64(s.config.TimeUnit)
}

// addEvent counts an event and keeps it while the list has room. Warnings
// are always kept.
func (s *Simulator) addEvent(event Event) {
	s.counts[event.Type]++
	if !event.IsWarning && len(s.events) >= maxEvents {
		return
	}
	s.events = append(s.events, event)
}

// GetRecords returns the finalized service records in id order
func (s *Simulator) GetRecords() []ServiceRecord {
	return s.state.Finalized
}

// GetPending returns the customers that were never assigned a server
func (s *Simulator) GetPending() []ServiceRecord {
	return s.state.Queue
}

// GetState returns the final state of the last run
func (s *Simulator) GetState() State {
	return s.state
}

// GetEvents returns the stored events in order: the first maxEvents events
// of the run plus every warning
func (s *Simulator) GetEvents() []Event {
	return s.events
}

// GetEventCounts returns how many events of each type the run emitted
func (s *Simulator) GetEventCounts() map[EventType]int {
	counts := make(map[EventType]int, len(s.counts))
	for typ, n := range s.counts {
		counts[typ] = n
	}
	return counts
}

// GetSnapshots returns all scheduled queue snapshots
func (s *Simulator) GetSnapshots() []Snapshot {
	return s.snapshots
}

// GetWarnings returns all warning events
func (s *Simulator) GetWarnings() []Event {
	warnings := []Event{}
	for _, event := range s.events {
		if event.IsWarning {
			warnings = append(warnings, event)
		}
	}
	return warnings
}
