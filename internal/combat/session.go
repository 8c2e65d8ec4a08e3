package combat

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"battlesim/internal/config"
)

var (
	ErrUnknownArmy = errors.New("unknown army")
	ErrUnknownType = errors.New("unknown unit type")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseTerminated:
		return "terminated"
	}
	return "idle"
}

// Observer receives every snapshot a session produces. It is called
// outside the session lock.
type Observer func(Snapshot)

// Session owns the two armies of one battle and its tick counter. All
// methods are safe to call from several goroutines; a tick runs under the
// session lock and is never interleaved with Start, Reset or InstallBuff.
type Session struct {
	mu       sync.Mutex
	id       string
	scenario *config.Scenario
	buffs    *BuffBook
	state    *State
	phase    Phase
	result   *Result
	observer Observer
}

func NewSession(sc *config.Scenario, observer Observer) *Session {
	if observer == nil {
		observer = func(Snapshot) {}
	}
	return &Session{scenario: sc, buffs: NewBuffBook(), observer: observer}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Start builds both armies from the scenario and enters the running phase.
// Any battle in progress is discarded. A malformed scenario is rejected and
// leaves the session idle.
func (s *Session) Start() error {
	s.mu.Lock()
	armies, err := NewArmies(s.scenario)
	if err != nil {
		s.state, s.phase, s.result = nil, PhaseIdle, nil
		s.mu.Unlock()
		return err
	}
	s.buffs.ApplyTo(SideA, armies[SideA])
	s.buffs.ApplyTo(SideB, armies[SideB])

	s.id = uuid.NewString()
	s.state = NewState(armies)
	s.phase = PhaseRunning
	s.result = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	slog.Info("battle started", "session", snap.SessionID, "armyA", armies[SideA].Name, "armyB", armies[SideB].Name)
	s.observer(snap)
	return nil
}

// Step runs one tick. ok is false, and nothing changes, unless the session
// is running.
func (s *Session) Step() (snap Snapshot, ok bool) {
	s.mu.Lock()
	if s.phase != PhaseRunning {
		s.mu.Unlock()
		return Snapshot{}, false
	}
	next, snap, done := Tick(s.state)
	s.state = next
	snap.SessionID = s.id
	if done {
		s.phase = PhaseTerminated
		s.result = snap.Result
	}
	s.mu.Unlock()

	if done {
		slog.Info("battle ended", "session", snap.SessionID, "tick", snap.Tick, "result", snap.Result.String())
	}
	s.observer(snap)
	return snap, true
}

// Halt terminates a running battle with a host-decided outcome such as
// OutcomeStalemate. It is a no-op unless the session is running.
func (s *Session) Halt(outcome Outcome) (Snapshot, bool) {
	s.mu.Lock()
	if s.phase != PhaseRunning {
		s.mu.Unlock()
		return Snapshot{}, false
	}
	res := &Result{Outcome: outcome, Tick: s.state.Tick}
	s.phase = PhaseTerminated
	s.result = res
	snap := s.snapshotLocked()
	snap.Result = res
	snap.Events = []Event{endEvent(s.state.Tick, res)}
	s.mu.Unlock()

	slog.Info("battle halted", "session", snap.SessionID, "tick", snap.Tick, "outcome", outcome)
	s.observer(snap)
	return snap, true
}

// Reset discards the armies and returns to idle. Installed buffs are kept.
// Unless the session was already idle, the observer gets a Cleared
// snapshot.
func (s *Session) Reset() {
	s.mu.Lock()
	wasIdle := s.phase == PhaseIdle
	id := s.id
	s.state, s.phase, s.result = nil, PhaseIdle, nil
	s.mu.Unlock()
	if wasIdle {
		return
	}
	slog.Info("session reset", "session", id)
	s.observer(Snapshot{SessionID: id, Cleared: true, Events: []Event{{Type: "Reset"}}})
}

// Snapshot returns the current state without advancing it.
func (s *Session) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return Snapshot{}, false
	}
	snap := s.snapshotLocked()
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap, true
}

func (s *Session) snapshotLocked() Snapshot {
	snap := snapshotOf(s.state)
	snap.SessionID = s.id
	return snap
}

// InstallBuff installs or replaces the buff of one group, or of every group
// of the army when t is AllGroups. It takes effect from the next attack and
// survives Reset.
func (s *Session) InstallBuff(side Side, t UnitType, rule BuffRule) error {
	if side != SideA && side != SideB {
		return fmt.Errorf("%w: side %d", ErrUnknownArmy, side)
	}
	if t != AllGroups && !knownType(t) {
		return fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	if math.IsNaN(rule.Percent) || math.IsInf(rule.Percent, 0) {
		return fmt.Errorf("%w: buff percent must be finite, got %v", config.ErrInvalidConfiguration, rule.Percent)
	}

	s.mu.Lock()
	s.buffs.Install(side, t, rule)
	if s.state != nil {
		s.buffs.ApplyTo(side, s.state.Armies[side])
	}
	s.mu.Unlock()

	slog.Debug("buff installed", "side", side.String(), "group", string(t), "percent", rule.Percent, "frequency", rule.Frequency)
	return nil
}

// ParseSide resolves an army reference: "a"/"b", "1"/"2", "a1"/"a2", or
// the army's configured name.
func (s *Session) ParseSide(ref string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(ref)) {
	case "a", "1", "a1":
		return SideA, nil
	case "b", "2", "a2":
		return SideB, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scenario != nil {
		for i, a := range s.scenario.Armies {
			if i < 2 && a.Name == ref {
				return Side(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownArmy, ref)
}

func knownType(t UnitType) bool {
	for _, u := range UnitTypes {
		if u == t {
			return true
		}
	}
	return false
}
