package survey

import (
	"math/bits"
	"sort"
)

// Gender follows the bit-flag encoding used by the harmonised gender_id
// column. Composite values are masks for filtering.
type Gender uint8

const (
	GenderUnknown Gender = 0b000
	Male          Gender = 0b001
	Female        Gender = 0b010
	GenderOther   Gender = 0b100

	NonMale      = Female | GenderOther
	NonFemale    = Male | GenderOther
	NonUndefined = Male | Female
	GenderKnown  = Male | Female | GenderOther
)

var genderNames = map[Gender]string{
	GenderUnknown: "UNKNOWN",
	Male:          "MALE",
	Female:        "FEMALE",
	GenderOther:   "OTHER",
	NonUndefined:  "NON_UNDEFINED",
	NonMale:       "NON_MALE",
	NonFemale:     "NON_FEMALE",
	GenderKnown:   "KNOWN",
}

func (g Gender) String() string { return flagName(genderNames, g) }

// Category returns the label of a single-valued gender, UNKNOWN otherwise.
func (g Gender) Category() string { return category(genderNames, g) }

// Has reports whether g falls inside mask.
func (g Gender) Has(mask Gender) bool { return g != 0 && g&mask == g }

// GenderCategories lists the category labels in code order.
func GenderCategories() []string { return categories(genderNames) }

// Race follows the bit-flag encoding used by the harmonised race_id column.
type Race uint8

const (
	RaceUnknown Race = 0b00000
	Asian       Race = 0b00001
	Black       Race = 0b00010
	Brown       Race = 0b00100
	Indigenous  Race = 0b01000
	White       Race = 0b10000

	RaceKnown = Asian | Black | Brown | Indigenous | White
	Colored   = Black | Brown | Indigenous
	Light     = White | Asian
	Dark      = Black | Brown

	NonAsian      = RaceKnown &^ Asian
	NonBlack      = RaceKnown &^ Black
	NonBrown      = RaceKnown &^ Brown
	NonIndigenous = RaceKnown &^ Indigenous
	NonWhite      = RaceKnown &^ White
)

var raceNames = map[Race]string{
	RaceUnknown: "UNKNOWN",
	Asian:       "ASIAN",
	Black:       "BLACK",
	Brown:       "BROWN",
	Indigenous:  "INDIGENOUS",
	White:       "WHITE",
	RaceKnown:   "KNOWN",
	Colored:     "COLORED",
	Light:       "LIGHT",
	Dark:        "DARK",
	NonAsian:    "NON_ASIAN",
	NonBlack:    "NON_BLACK",
	NonBrown:    "NON_BROWN",
	NonWhite:    "NON_WHITE",
	NonIndigenous: "NON_INDIGENOUS",
}

func (r Race) String() string { return flagName(raceNames, r) }

func (r Race) Category() string { return category(raceNames, r) }

func (r Race) Has(mask Race) bool { return r != 0 && r&mask == r }

func RaceCategories() []string { return categories(raceNames) }

type flag interface {
	~uint8 | ~uint32
}

func flagName[F flag](names map[F]string, v F) string {
	if name, ok := names[v]; ok {
		return name
	}
	return "UNKNOWN"
}

func category[F flag](names map[F]string, v F) string {
	if bits.OnesCount64(uint64(v)) > 1 {
		return names[0]
	}
	return flagName(names, v)
}

// categories returns the names of the zero value and the single-bit members,
// ordered by value.
func categories[F flag](names map[F]string) []string {
	var values []F
	for v := range names {
		if bits.OnesCount64(uint64(v)) <= 1 {
			values = append(values, v)
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = names[v]
	}
	return out
}
