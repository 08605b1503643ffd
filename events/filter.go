package events

// Actor selects whose events a Filter accepts.
type Actor int

const (
	AnyActor Actor = iota
	SelectedPlayer
)

var (
	Cast       = Filter{kind: KindCast}
	Heal       = Filter{kind: KindHeal}
	Damage     = Filter{kind: KindDamage}
	ApplyBuff  = Filter{kind: KindApplyBuff}
	RemoveBuff = Filter{kind: KindRemoveBuff}
)

// Filter is an immutable predicate over (kind, actor, spell). Builders
// return copies so a shared base filter can be narrowed freely.
type Filter struct {
	kind   Kind
	by     Actor
	spells []int
}

func (f Filter) By(actor Actor) Filter {
	f.by = actor
	return f
}

func (f Filter) Spell(ids ...int) Filter {
	spells := make([]int, 0, len(f.spells)+len(ids))
	spells = append(spells, f.spells...)
	spells = append(spells, ids...)
	f.spells = spells
	return f
}

func (f Filter) Match(ev *Event, selectedID int) bool {
	if f.kind != "" && ev.Kind != f.kind {
		return false
	}
	if f.by == SelectedPlayer && ev.SourceID != selectedID {
		return false
	}
	if len(f.spells) == 0 {
		return true
	}
	for _, id := range f.spells {
		if ev.AbilityID == id {
			return true
		}
	}
	return false
}
