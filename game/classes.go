package game

var (
	ClassOrder = map[string]int{
		"DeathKnight": 1,
		"DemonHunter": 2,
		"Druid":       3,
		"Evoker":      4,
		"Hunter":      5,
		"Mage":        6,
		"Monk":        7,
		"Paladin":     8,
		"Priest":      9,
		"Rogue":       10,
		"Shaman":      11,
		"Warlock":     12,
		"Warrior":     13,
	}
)

func ValidClass(class string) bool {
	_, ok := ClassOrder[class]
	return ok
}
