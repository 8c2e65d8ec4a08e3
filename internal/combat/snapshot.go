package combat

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	// Hosts end a battle early with these; Tick never produces them.
	OutcomeStalemate Outcome = "stalemate"
	OutcomeStopped   Outcome = "stopped"
)

type Result struct {
	Outcome    Outcome `json:"outcome"`
	Winner     string  `json:"winner,omitempty"`
	WinnerSide Side    `json:"winner_side"`
	Tick       int     `json:"tick"`
}

// String is "draw" or the winning army's name.
func (r Result) String() string {
	if r.Outcome == OutcomeWin {
		return r.Winner
	}
	return string(r.Outcome)
}

type GroupStatus struct {
	Type     UnitType `json:"type"`
	Position Position `json:"position"`
	Units    int      `json:"units"`
	Alive    int      `json:"alive"`
	HP       float64  `json:"hp"`
	Lost     int      `json:"lost"`
	Percent  float64  `json:"percent"`
	Attacks  int      `json:"attacks"`
}

type ArmyStatus struct {
	Name   string        `json:"name"`
	Alive  int           `json:"alive"`
	HP     float64       `json:"hp"`
	Lost   int           `json:"lost"`
	Groups []GroupStatus `json:"groups"`
}

// Group returns the status of the given unit type.
func (a ArmyStatus) Group(t UnitType) (GroupStatus, bool) {
	for _, g := range a.Groups {
		if g.Type == t {
			return g, true
		}
	}
	return GroupStatus{}, false
}

type Snapshot struct {
	SessionID string        `json:"session_id,omitempty"`
	Tick      int           `json:"tick"`
	Armies    [2]ArmyStatus `json:"armies"`
	Log       string        `json:"log"`
	Events    []Event       `json:"events,omitempty"`
	Result    *Result       `json:"result,omitempty"`
	// Cleared marks the snapshot sent on Reset; views should drop their state.
	Cleared bool `json:"cleared,omitempty"`
}

func armyStatus(a *Army) ArmyStatus {
	st := ArmyStatus{Name: a.Name}
	for _, t := range UnitTypes {
		g := a.Group(t)
		if g == nil {
			continue
		}
		alive := g.Alive()
		pct := 0.0
		if g.Units > 0 {
			pct = float64(alive) / float64(g.Units) * 100
		}
		st.Groups = append(st.Groups, GroupStatus{
			Type: g.Type, Position: g.Position,
			Units: g.Units, Alive: alive, HP: g.RemainingHP, Lost: g.LastLosses,
			Percent: pct, Attacks: g.AttackCounter,
		})
		st.Alive += alive
		st.HP += g.RemainingHP
		st.Lost += g.LastLosses
	}
	return st
}

func snapshotOf(s *State) Snapshot {
	return Snapshot{
		Tick:   s.Tick,
		Armies: [2]ArmyStatus{armyStatus(s.Armies[SideA]), armyStatus(s.Armies[SideB])},
		Log:    logLine(s),
	}
}

// logLine renders e.g. "t=3s | Army 1: tank:5, infantry:10, sniper:3  |  Army 2: ...".
func logLine(s *State) string {
	side := func(a *Army) string {
		parts := make([]string, 0, len(a.Groups))
		for _, g := range a.Groups {
			parts = append(parts, fmt.Sprintf("%s:%d", g.Type, g.Alive()))
		}
		return a.Name + ": " + strings.Join(parts, ", ")
	}
	return fmt.Sprintf("t=%ds | %s  |  %s", s.Tick, side(s.Armies[SideA]), side(s.Armies[SideB]))
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
