package combat

import "math"

type Event struct {
	T       float64        `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type UnitType string

const (
	Tank     UnitType = "tank"
	Infantry UnitType = "infantry"
	Sniper   UnitType = "sniper"
)

// UnitTypes is the display order of groups.
var UnitTypes = []UnitType{Tank, Infantry, Sniper}

type Position string

const (
	Front Position = "front"
	Mid   Position = "mid"
	Back  Position = "back"
)

// Side identifies one of the two armies of a session.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// BuffRule multiplies a group's attack power by (1 + Percent/100) on every
// Frequency-th attack. Frequency <= 0 disables it.
type BuffRule struct {
	Percent   float64 `json:"percent"`
	Frequency int     `json:"frequency"`
}

func (b BuffRule) Enabled() bool { return b.Frequency > 0 }

// Active reports whether the attack numbered counter (1-based) is buffed.
func (b BuffRule) Active(counter int) bool {
	return b.Enabled() && counter%b.Frequency == 0
}

type UnitGroup struct {
	Type        UnitType
	Position    Position
	HPPerUnit   float64
	Attack      float64
	AttackSpeed float64
	Defense     float64
	Penetration float64
	Units       int

	RemainingHP   float64
	AttackCounter int
	LastLosses    int
	Buff          BuffRule
}

func NewUnitGroup(t UnitType, pos Position, hp, atk, speed, def, pen float64, units int) *UnitGroup {
	return &UnitGroup{
		Type: t, Position: pos,
		HPPerUnit: hp, Attack: atk, AttackSpeed: speed, Defense: def, Penetration: pen,
		Units:       units,
		RemainingHP: hp * float64(units),
	}
}

// Alive is floor(RemainingHP / HPPerUnit), or 0 for groups with no health
// per unit. Counts past math.MaxInt saturate.
func (g *UnitGroup) Alive() int {
	if g.HPPerUnit <= 0 || g.RemainingHP <= 0 {
		return 0
	}
	v := math.Floor(g.RemainingHP / g.HPPerUnit)
	if v >= math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}

func (g *UnitGroup) takeDamage(amount float64) {
	g.RemainingHP -= amount
	if g.RemainingHP < 0 {
		g.RemainingHP = 0
	}
}

type Army struct {
	Name   string
	Groups []*UnitGroup
}

// Group looks a group up by type.
func (a *Army) Group(t UnitType) *UnitGroup {
	for _, g := range a.Groups {
		if g.Type == t {
			return g
		}
	}
	return nil
}

func (a *Army) Defeated() bool {
	for _, g := range a.Groups {
		if g.Alive() > 0 {
			return false
		}
	}
	return true
}

func (a *Army) clone() *Army {
	out := &Army{Name: a.Name, Groups: make([]*UnitGroup, len(a.Groups))}
	for i, g := range a.Groups {
		cp := *g
		out.Groups[i] = &cp
	}
	return out
}
