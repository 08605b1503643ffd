package game

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
)

const (
	SpellFireBlast     = 108853
	BuffHeatingUp      = 48107
	BuffHotStreak      = 48108
	TalentCombustion   = 190319
	TalentPhoenixFlame = 257541
	TalentFirestarter  = 205026
	TalentSearingTouch = 269644
	TalentFlameOn      = 205029

	SpellTrueshot  = 288613
	SpellAimedShot = 19434

	SpellExpelHarm           = 322101
	SpellExpelHarmTargetHeal = 344939
	SpellGustsOfMists        = 191894
	SpellEssenceFont         = 191837
)

const (
	ResourceMana  = 0
	ResourceFocus = 2
)

type SpellData struct {
	Kind  string
	ID    int
	Name  string
	Class string

	Cooldown     int64 // ms
	Charges      int
	ChargeTalent int

	Icon string
}

type SpellTable struct {
	Spells  map[int]SpellData
	ByClass map[string][]int
}

//go:embed spells.csv
var spellsCSV []byte

var Spells *SpellTable

func init() {
	var err error
	Spells, err = LoadSpells(bytes.NewReader(spellsCSV))
	if err != nil {
		panic(err)
	}
}

// LoadSpells reads the spell table csv. The first row is a header.
func LoadSpells(r io.Reader) (*SpellTable, error) {
	sr, _ := utfbom.Skip(r)

	st := &SpellTable{
		Spells:  make(map[int]SpellData),
		ByClass: make(map[string][]int),
	}

	cr := csv.NewReader(sr)
	cr.FieldsPerRecord = 8

	header := true
	for {
		d, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if header {
			header = false
			continue
		}

		id, err := strconv.Atoi(d[1])
		if err != nil {
			return nil, errors.Wrapf(err, "spell id %q", d[1])
		}
		cooldown, _ := strconv.ParseInt(d[4], 10, 64)
		charges, _ := strconv.Atoi(d[5])
		chargeTalent, _ := strconv.Atoi(d[6])

		st.Spells[id] = SpellData{
			Kind:         d[0],
			ID:           id,
			Name:         d[2],
			Class:        d[3],
			Cooldown:     cooldown,
			Charges:      charges,
			ChargeTalent: chargeTalent,
			Icon:         d[7],
		}
		st.ByClass[d[3]] = append(st.ByClass[d[3]], id)
	}

	return st, nil
}

func (st *SpellTable) Get(id int) (SpellData, bool) {
	s, ok := st.Spells[id]
	return s, ok
}

// Name falls back to the numeric id for spells missing from the table.
func (st *SpellTable) Name(id int) string {
	if s, ok := st.Spells[id]; ok {
		return s.Name
	}
	return strconv.Itoa(id)
}

func (st *SpellTable) Icon(id int) string {
	return st.Spells[id].Icon
}
