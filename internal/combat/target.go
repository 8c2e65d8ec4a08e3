package combat

var targetPriority = []Position{Front, Mid, Back}

// SelectTarget returns the first alive group of the defender in
// front > mid > back order, or nil when every group is wiped out. Groups
// sharing a position are tried in army order.
func SelectTarget(defender *Army) *UnitGroup {
	for _, p := range targetPriority {
		for _, g := range defender.Groups {
			if g.Position == p && g.Alive() > 0 {
				return g
			}
		}
	}
	return nil
}
