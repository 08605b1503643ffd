package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSpellTable(t *testing.T) {
	fb, ok := Spells.Get(SpellFireBlast)
	require.True(t, ok)
	assert.Equal(t, "Fire Blast", fb.Name)
	assert.Equal(t, int64(12000), fb.Cooldown)
	assert.Equal(t, 1, fb.Charges)
	assert.Equal(t, TalentFlameOn, fb.ChargeTalent)

	assert.Contains(t, Spells.ByClass["Mage"], SpellFireBlast)
	assert.Contains(t, Spells.ByClass["Hunter"], SpellAimedShot)
	assert.Equal(t, "Hot Streak", Spells.Name(BuffHotStreak))
	assert.Equal(t, "42", Spells.Name(42))
}

func TestLoadSpellsWithBOM(t *testing.T) {
	data := "\xef\xbb\xbfkind,id,name,class,cooldown,charges,charge_talent,icon\n" +
		"spell,1,Test,Mage,1000,2,0,icon\n"

	st, err := LoadSpells(strings.NewReader(data))
	require.NoError(t, err)

	s, ok := st.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Test", s.Name)
	assert.Equal(t, 2, s.Charges)
}

func TestLoadSpellsBadID(t *testing.T) {
	data := "kind,id,name,class,cooldown,charges,charge_talent,icon\n" +
		"spell,x,Test,Mage,1000,2,0,icon\n"

	_, err := LoadSpells(strings.NewReader(data))
	assert.Error(t, err)
}

func TestValidClass(t *testing.T) {
	assert.True(t, ValidClass("Mage"))
	assert.False(t, ValidClass("Bard"))
}
