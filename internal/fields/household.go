package fields

import (
	"math"

	"gopnad/domain/survey"
	"gopnad/domain/table"
)

var householdStateVars = survey.Spec[string]{
	{Range: survey.Since(1992), Value: "UF"},
	{Range: survey.Between(1981, 1990), Value: "V10"},
}

// Household returns the catalogue of harmonised household-level fields.
func Household() *Catalog {
	c := NewCatalog(survey.Household)
	c.Register(yearField())
	c.Register(NewRawField("weight", "Sample weight of the household", survey.Spec[Source]{
		from(survey.Since(1992), "V4611"),
	}))
	for _, f := range geographicFields(householdStateVars) {
		c.Register(f)
	}

	since92 := survey.Since(1992)
	c.Register(NewRawField("residents", "Number of residents", survey.Spec[Source]{from(since92, "V0105")}))
	c.Register(NewRawField("rooms", "Number of rooms", survey.Spec[Source]{from(since92, "V0205")}))
	c.Register(NewRawField("bedrooms", "Number of rooms used as bedrooms", survey.Spec[Source]{from(since92, "V0206")}))
	c.Register(NewRawField("tenure", "Tenure code of the dwelling (owned, rented, ceded, ...)", survey.Spec[Source]{from(since92, "V0207")}))
	c.Register(NewRawField("situation", "Census situation code of the dwelling; 1 to 3 are urban areas", survey.Spec[Source]{from(since92, "V4105")}))
	c.Register(&FuncField{
		name:  "is_urban",
		descr: "1 for dwellings in urban areas, 0 otherwise",
		typ:   table.Numeric,
		deps:  []string{"situation"},
		compute: func(fr *Frame) ([]float64, error) {
			situation := fr.Floats("situation")
			out := make([]float64, len(situation))
			for i, s := range situation {
				switch {
				case math.IsNaN(s):
					out[i] = math.NaN()
				case s >= 1 && s <= 3:
					out[i] = 1
				}
			}
			return out, nil
		},
	})
	c.Register(NewIncomeField("income_household", "Total household income", survey.Spec[Source]{from(since92, "V4614")}))
	c.Register(NewIncomeField("income_household_per_capita", "Household income per resident", survey.Spec[Source]{from(since92, "V4621")}))
	return c
}
