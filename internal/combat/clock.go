package combat

// State is everything a tick reads and writes.
type State struct {
	Tick   int
	Armies [2]*Army
}

func NewState(armies [2]*Army) *State {
	return &State{Armies: armies}
}

func (s *State) Clone() *State {
	return &State{Tick: s.Tick, Armies: [2]*Army{s.Armies[SideA].clone(), s.Armies[SideB].clone()}}
}

// Result reports the outcome once either army is defeated, nil otherwise.
func (s *State) Result() *Result {
	defA, defB := s.Armies[SideA].Defeated(), s.Armies[SideB].Defeated()
	switch {
	case defA && defB:
		return &Result{Outcome: OutcomeDraw, Tick: s.Tick}
	case defA:
		return &Result{Outcome: OutcomeWin, Winner: s.Armies[SideB].Name, WinnerSide: SideB, Tick: s.Tick}
	case defB:
		return &Result{Outcome: OutcomeWin, Winner: s.Armies[SideA].Name, WinnerSide: SideA, Tick: s.Tick}
	}
	return nil
}

// Tick advances a copy of s by one tick and returns it with the tick's
// snapshot. done is true when the battle is over; if it already was, no
// combat happens and the returned state equals s.
func Tick(s *State) (next *State, snap Snapshot, done bool) {
	next = s.Clone()
	if res := next.Result(); res != nil {
		snap = snapshotOf(next)
		snap.Result = res
		snap.Events = []Event{endEvent(next.Tick, res)}
		return next, snap, true
	}

	next.Tick++
	t := float64(next.Tick)
	a, b := next.Armies[SideA], next.Armies[SideB]

	before := map[*UnitGroup]int{}
	for _, army := range next.Armies {
		for _, g := range army.Groups {
			before[g] = g.Alive()
		}
	}

	// Both directions read the pre-tick defenders; damage lands afterwards.
	hitsOnB := ResolveAttacks(a, b)
	hitsOnA := ResolveAttacks(b, a)
	ApplyDamage(accumulate(hitsOnA))
	ApplyDamage(accumulate(hitsOnB))

	for g, n := range before {
		g.LastLosses = n - g.Alive()
	}

	snap = snapshotOf(next)
	events := make([]Event, 0, len(hitsOnA)+len(hitsOnB)+2)
	events = appendHits(events, t, SideA, hitsOnB)
	events = appendHits(events, t, SideB, hitsOnA)
	events = append(events, Event{T: t, Type: "LogLine", Payload: map[string]any{"text": snap.Log}})
	if res := next.Result(); res != nil {
		snap.Result = res
		events = append(events, endEvent(next.Tick, res))
		done = true
	}
	snap.Events = events
	return next, snap, done
}

func appendHits(events []Event, t float64, side Side, hits []Hit) []Event {
	for _, h := range hits {
		events = append(events, Event{T: t, Type: "Hit", Payload: map[string]any{
			"side": side.String(), "attacker": string(h.Attacker.Type), "target": string(h.Target.Type),
			"dmg": h.Damage, "buffed": h.Buffed, "hp": h.Target.RemainingHP,
		}})
	}
	return events
}

func endEvent(tick int, res *Result) Event {
	return Event{T: float64(tick), Type: "BattleEnd", Payload: map[string]any{
		"outcome": string(res.Outcome), "result": res.String(),
	}}
}
