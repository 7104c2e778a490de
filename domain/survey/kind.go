package survey

import (
	"fmt"
	"strings"

	"gopnad/domain/core"
)

// Kind identifies which PNAD questionnaire a record comes from.
type Kind string

const (
	Person    Kind = "person"
	Household Kind = "household"
)

// Kinds lists every record kind in a stable order.
var Kinds = []Kind{Person, Household}

// ParseKind accepts the English names and the PNAD file prefixes.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "person", "pes", "pessoa":
		return Person, nil
	case "household", "dom", "domicilio":
		return Household, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidKind, s)
}

// FilePrefix returns the prefix used by IBGE for the raw file names.
func (k Kind) FilePrefix() string {
	if k == Household {
		return "dom"
	}
	return "pes"
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) Valid() bool {
	return k == Person || k == Household
}
