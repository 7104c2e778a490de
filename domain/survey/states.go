package survey

import "sort"

// State encodes a federative unit together with the bit of its macro-region,
// so that region masks select every state inside them.
type State uint32

const (
	StateUnknown State = 0

	// Sul
	RS State = 0b1001
	SC State = 0b1010
	PR State = 0b1100

	// Sudeste
	SP State = 0b10001 << 4
	RJ State = 0b10010 << 4
	MG State = 0b10100 << 4
	ES State = 0b11000 << 4

	// Centro-oeste
	MS State = 0b10001 << 9
	MT State = 0b10010 << 9
	GO State = 0b10100 << 9
	DF State = 0b11000 << 9

	// Nordeste
	BA State = 0b1000000001 << 14
	AL State = 0b1000000010 << 14
	SE State = 0b1000000100 << 14
	PE State = 0b1000001000 << 14
	PB State = 0b1000010000 << 14
	RN State = 0b1000100000 << 14
	CE State = 0b1001000000 << 14
	PI State = 0b1010000000 << 14
	MA State = 0b1100000000 << 14

	// Norte
	TO State = 0b10000001 << 24
	PA State = 0b10000010 << 24
	AP State = 0b10000100 << 24
	AM State = 0b10001000 << 24
	RR State = 0b10010000 << 24
	AC State = 0b10100000 << 24
	RO State = 0b11000000 << 24

	// Regions
	Sul         State = 0b1000
	Sudeste     State = 0b10000 << 4
	CentroOeste State = 0b10000 << 9
	Nordeste    State = 0b1000000000 << 14
	Norte       State = 0b10000000 << 24

	// Masks
	AnyRegion      = Sul | Sudeste | CentroOeste | Nordeste | Norte
	SulSudeste     = Sul | Sudeste
	NorteNordeste  = Norte | Nordeste
	NonSul         = AnyRegion &^ Sul
	NonSudeste     = AnyRegion &^ Sudeste
	NonCentroOeste = AnyRegion &^ CentroOeste
	NonNordeste    = AnyRegion &^ Nordeste
	NonNorte       = AnyRegion &^ Norte
)

type stateInfo struct {
	abbr string
	name string
	ibge int
}

var stateTable = map[State]stateInfo{
	RO: {"RO", "Rondônia", 11}, AC: {"AC", "Acre", 12}, AM: {"AM", "Amazonas", 13},
	RR: {"RR", "Roraima", 14}, PA: {"PA", "Pará", 15}, AP: {"AP", "Amapá", 16},
	TO: {"TO", "Tocantins", 17},

	MA: {"MA", "Maranhão", 21}, PI: {"PI", "Piauí", 22}, CE: {"CE", "Ceará", 23},
	RN: {"RN", "Rio Grande do Norte", 24}, PB: {"PB", "Paraíba", 25},
	PE: {"PE", "Pernambuco", 26}, AL: {"AL", "Alagoas", 27}, SE: {"SE", "Sergipe", 28},
	BA: {"BA", "Bahia", 29},

	MG: {"MG", "Minas Gerais", 31}, ES: {"ES", "Espírito Santo", 32},
	RJ: {"RJ", "Rio de Janeiro", 33}, SP: {"SP", "São Paulo", 35},

	PR: {"PR", "Paraná", 41}, SC: {"SC", "Santa Catarina", 42},
	RS: {"RS", "Rio Grande do Sul", 43},

	MS: {"MS", "Mato Grosso do Sul", 50}, MT: {"MT", "Mato Grosso", 51},
	GO: {"GO", "Goiás", 52}, DF: {"DF", "Distrito Federal", 53},
}

var regionNames = map[State]string{
	Sul:         "SUL",
	Sudeste:     "SUDESTE",
	CentroOeste: "CENTRO_OESTE",
	Nordeste:    "NORDESTE",
	Norte:       "NORTE",
}

var regionOrder = []State{Norte, Nordeste, Sudeste, Sul, CentroOeste}

var byIBGE = func() map[int]State {
	m := make(map[int]State, len(stateTable))
	for s, info := range stateTable {
		m[info.ibge] = s
	}
	return m
}()

// String returns the two-letter abbreviation of a state or the name of a
// region.
func (s State) String() string {
	if info, ok := stateTable[s]; ok {
		return info.abbr
	}
	if name, ok := regionNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// VerboseName returns the Portuguese name of a state, or String() for
// regions and masks.
func (s State) VerboseName() string {
	if info, ok := stateTable[s]; ok {
		return info.name
	}
	return s.String()
}

// IBGE returns the two-digit IBGE code, zero for regions and masks.
func (s State) IBGE() int {
	return stateTable[s].ibge
}

// Region returns the macro-region of a state.
func (s State) Region() State {
	for _, r := range regionOrder {
		if s&r != 0 {
			return r
		}
	}
	return StateUnknown
}

// Has reports whether every bit of s is set in mask, i.e. s is one of the
// states OR-ed into mask.
func (s State) Has(mask State) bool {
	return s != 0 && s&mask == s
}

// InRegion reports whether the region of s is part of a region mask such as
// NorteNordeste or NonSul.
func (s State) InRegion(mask State) bool {
	return s.Region()&mask != 0
}

// IsState reports whether s is a single federative unit.
func (s State) IsState() bool {
	_, ok := stateTable[s]
	return ok
}

// StateFromIBGE maps a two-digit IBGE code to a State.
func StateFromIBGE(code int) (State, bool) {
	s, ok := byIBGE[code]
	return s, ok
}

// States lists every federative unit in IBGE code order.
func States() []State {
	out := make([]State, 0, len(stateTable))
	for s := range stateTable {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return stateTable[out[i]].ibge < stateTable[out[j]].ibge })
	return out
}

// StateCategories lists state abbreviations in IBGE order, UNKNOWN first.
func StateCategories() []string {
	out := []string{"UNKNOWN"}
	for _, s := range States() {
		out = append(out, s.String())
	}
	return out
}

// RegionCategories lists region names in IBGE order, UNKNOWN first.
func RegionCategories() []string {
	out := []string{"UNKNOWN"}
	for _, r := range regionOrder {
		out = append(out, regionNames[r])
	}
	return out
}

// StateCodes1992 maps the UF variable of the 1992+ questionnaires (IBGE codes).
var StateCodes1992 = map[int]State{
	11: RO, 12: AC, 13: AM, 14: RR, 15: PA, 16: AP, 17: TO,
	21: MA, 22: PI, 23: CE, 24: RN, 25: PB, 26: PE, 27: AL,
	28: SE, 29: BA, 31: MG, 32: ES, 33: RJ, 35: SP, 41: PR,
	42: SC, 43: RS, 50: MS, 51: MT, 52: GO, 53: DF,
}

// StateCodes1981 maps the V10 region/stratum code used between 1981 and 1990.
var StateCodes1981 = map[int]State{
	11: RJ, 12: RJ, 13: RJ, 14: RJ, 20: SP, 21: SP, 22: SP,
	23: SP, 24: SP, 25: SP, 26: SP, 27: SP, 28: SP, 29: SP,
	30: PR, 31: PR, 32: SC, 33: RS, 34: RS, 35: RS, 37: PR,
	41: MG, 42: MG, 43: ES, 51: MA, 52: PI, 53: CE, 54: RN,
	55: PB, 56: PE, 57: AL, 58: SE, 59: BA, 60: BA, 61: DF,
	71: RO, 72: AC, 73: AM, 74: RR, 75: PA, 76: AP, 81: MS,
	82: MT, 83: GO,
}

// StateCodes1976 maps the state codes used between 1976 and 1979.
var StateCodes1976 = map[int]State{
	11: RJ, 21: SP, 31: PR, 32: SC, 33: RS, 41: MG, 43: ES,
	51: MA, 52: PI, 53: CE, 54: RN, 55: PB, 56: PE, 57: AL,
	58: SE, 59: BA, 61: DF, 71: RO, 72: AC, 73: AM, 74: RR,
	75: PA, 76: AP, 77: MT, 78: GO,
}
