package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// MaxUnits is the largest group size whose health pool a float64 still
// counts unit by unit.
const MaxUnits = 1 << 53

var (
	unitTypeAliases = map[string]string{
		"tank": "tank", "infantry": "infantry", "inf": "infantry",
		"sniper": "sniper", "sni": "sniper",
	}
	positions = map[string]bool{"front": true, "mid": true, "back": true}
)

// NormalizeType maps a configured unit type (including the short "inf" and
// "sni" forms) to its canonical name.
func NormalizeType(s string) (string, bool) {
	t, ok := unitTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

func NormalizePosition(s string) (string, bool) {
	p := strings.ToLower(strings.TrimSpace(s))
	return p, positions[p]
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func (s *Scenario) Validate() error {
	if s == nil {
		return invalid("no scenario")
	}
	if len(s.Armies) != 2 {
		return invalid("need exactly 2 armies, got %d", len(s.Armies))
	}
	for i := range s.Armies {
		if err := s.Armies[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (a *ArmyDef) Validate() error {
	if len(a.Groups) != 3 {
		return invalid("army %q: need exactly 3 groups, got %d", a.Name, len(a.Groups))
	}
	if err := validateBuff(a.Buff); err != nil {
		return invalid("army %q buff: %v", a.Name, err)
	}
	seen := map[string]bool{}
	for _, g := range a.Groups {
		t, ok := NormalizeType(g.Type)
		if !ok {
			return invalid("army %q: unknown unit type %q", a.Name, g.Type)
		}
		if seen[t] {
			return invalid("army %q: duplicate %s group", a.Name, t)
		}
		seen[t] = true
		if _, ok := NormalizePosition(g.Position); !ok {
			return invalid("army %q %s: unknown position %q", a.Name, t, g.Position)
		}
		stats := []struct {
			name string
			v    float64
		}{
			{"hp", g.HP},
			{"attack", g.Attack},
			{"attack_speed", g.AttackSpeed},
			{"defense", g.Defense},
			{"penetration", g.Penetration},
		}
		for _, st := range stats {
			if math.IsNaN(st.v) || math.IsInf(st.v, 0) || st.v < 0 {
				return invalid("army %q %s: %s must be a non-negative number, got %v", a.Name, t, st.name, st.v)
			}
		}
		if g.Units < 0 {
			return invalid("army %q %s: units must be non-negative, got %d", a.Name, t, g.Units)
		}
		if int64(g.Units) > MaxUnits {
			return invalid("army %q %s: units must be at most %d, got %d", a.Name, t, MaxUnits, g.Units)
		}
		if pool := g.HP * float64(g.Units); math.IsInf(pool, 0) {
			return invalid("army %q %s: hp*units overflows the health pool", a.Name, t)
		}
		if err := validateBuff(g.Buff); err != nil {
			return invalid("army %q %s buff: %v", a.Name, t, err)
		}
	}
	return nil
}

func validateBuff(b *BuffDef) error {
	if b == nil {
		return nil
	}
	if math.IsNaN(b.Percent) || math.IsInf(b.Percent, 0) {
		return fmt.Errorf("percent must be finite, got %v", b.Percent)
	}
	return nil
}
