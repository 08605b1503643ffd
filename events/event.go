package events

type Kind string

const (
	KindCast          Kind = "cast"
	KindHeal          Kind = "heal"
	KindDamage        Kind = "damage"
	KindApplyBuff     Kind = "applybuff"
	KindRemoveBuff    Kind = "removebuff"
	KindRefreshBuff   Kind = "refreshbuff"
	KindCombatantInfo Kind = "combatantinfo"
)

type ClassResource struct {
	Type   int `json:"type"`
	Amount int `json:"amount"`
	Max    int `json:"max"`
}

type Talent struct {
	ID   int `json:"id"`
	Rank int `json:"rank"`
}

// Event is one normalized log line. Events are shared between the
// dispatcher and every analyzer and must not be modified after replay starts.
type Event struct {
	Timestamp int64 `json:"timestamp"`
	Kind      Kind  `json:"type"`
	SourceID  int   `json:"sourceID"`
	TargetID  int   `json:"targetID"`
	AbilityID int   `json:"abilityGameID"`

	Amount   int `json:"amount,omitempty"`
	Absorbed int `json:"absorbed,omitempty"`
	Overheal int `json:"overheal,omitempty"`

	HitPoints    int `json:"hitPoints,omitempty"`
	MaxHitPoints int `json:"maxHitPoints,omitempty"`

	ClassResources []ClassResource `json:"classResources,omitempty"`

	// spell ids of the casts this event was attributed to
	Links []int `json:"links,omitempty"`

	Talents []Talent `json:"talents,omitempty"`
}

func (ev *Event) Resource(resourceType int) (ClassResource, bool) {
	for _, r := range ev.ClassResources {
		if r.Type == resourceType {
			return r, true
		}
	}
	return ClassResource{}, false
}

func (ev *Event) LinkedTo(spellID int) bool {
	for _, id := range ev.Links {
		if id == spellID {
			return true
		}
	}
	return false
}

// Effective returns healing done including absorbed amount.
func (ev *Event) Effective() int {
	return ev.Amount + ev.Absorbed
}
