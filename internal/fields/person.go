package fields

import (
	"math"

	"gopnad/domain/survey"
	"gopnad/domain/table"
)

// Person returns the catalogue of harmonised person-level fields.
func Person() *Catalog {
	c := NewCatalog(survey.Person)
	c.Register(yearField())
	for _, f := range personWeights() {
		c.Register(f)
	}
	for _, f := range socialFields() {
		c.Register(f)
	}
	for _, f := range geographicFields(personStateVars) {
		c.Register(f)
	}
	c.Register(numberOfChildren())
	for _, f := range occupationFields() {
		c.Register(f)
	}
	for _, f := range incomeFields() {
		c.Register(f)
	}
	return c
}

func yearField() Field {
	return &FuncField{
		name:      "year",
		descr:     "Survey year",
		typ:       table.Numeric,
		transient: true,
		compute: func(fr *Frame) ([]float64, error) {
			return table.Constant("year", float64(fr.Year), fr.Rows()).Floats, nil
		},
	}
}

func personWeights() []Field {
	return []Field{
		NewRawField("weight", "Sample weight of the person", survey.Spec[Source]{
			from(survey.Since(1992), "V4729"),
			from(survey.Year(1990), "V3091"),
			from(survey.Between(1981, 1989), "V9991"),
			from(survey.Year(1979), "V2999"),
			from(survey.Year(1978), "V2997"),
			from(survey.Year(1977), "V187"),
			from(survey.Year(1976), "V2997"),
		}),
		NewRawField("weight_family", "Sample weight of the family", survey.Spec[Source]{
			from(survey.Since(1992), "V4732"),
			from(survey.Between(1981, 1990), "V9971"),
			from(survey.Year(1979), "V2998"),
			from(survey.Year(1978), "V2996"),
		}),
		NewRawField("weight_household", "Sample weight of the household", survey.Spec[Source]{
			from(survey.Since(1992), "V4732"),
			from(survey.Year(1990), "V1091"),
			from(survey.Between(1981, 1989), "V9981"),
			from(survey.Year(1979), "V1997"),
			from(survey.Year(1978), "V1995"),
			from(survey.Year(1977), "V187"),
			from(survey.Year(1976), "V1997"),
		}),
	}
}

var (
	genderVars = survey.Spec[string]{
		{Range: survey.Year(1976), Value: "V2103"},
		{Range: survey.Year(1977), Value: "V16"},
		{Range: survey.Between(1978, 1979), Value: "V2203"},
		{Range: survey.Between(1981, 1990), Value: "V303"},
		{Range: survey.Since(1992), Value: "V0302"},
	}
	genderCodes = survey.Spec[map[int]float64]{
		{Range: survey.Until(1979), Value: map[int]float64{1: float64(survey.Male), 2: float64(survey.Female)}},
		{Range: survey.Between(1981, 1990), Value: map[int]float64{1: float64(survey.Male), 3: float64(survey.Female)}},
		{Range: survey.Since(1992), Value: map[int]float64{2: float64(survey.Male), 4: float64(survey.Female)}},
	}

	raceVars = survey.Spec[string]{
		{Range: survey.Year(1976), Value: "V303"},
		{Range: survey.Year(1982), Value: "V6302"},
		// fertility supplement, women only
		{Range: survey.Year(1984), Value: "V2301"},
		// minors supplement, ages 0 to 17
		{Range: survey.Year(1985), Value: "V2301"},
		// health supplement, random respondents
		{Range: survey.Year(1986), Value: "V2201"},
		{Range: survey.Between(1987, 1990), Value: "V304"},
		{Range: survey.Since(1992), Value: "V0404"},
	}
	raceCodes = survey.Spec[map[int]float64]{
		{Range: survey.Year(1976), Value: map[int]float64{
			1: float64(survey.White), 2: float64(survey.Black), 3: float64(survey.Asian), 4: float64(survey.Brown),
		}},
		{Range: survey.Between(1982, 1986), Value: map[int]float64{
			1: float64(survey.White), 3: float64(survey.Black), 5: float64(survey.Brown), 7: float64(survey.Asian),
		}},
		{Range: survey.Between(1987, 1990), Value: map[int]float64{
			2: float64(survey.White), 4: float64(survey.Black), 6: float64(survey.Brown), 8: float64(survey.Asian),
		}},
		{Range: survey.Since(1992), Value: map[int]float64{
			0: float64(survey.Indigenous), 2: float64(survey.White), 4: float64(survey.Black),
			6: float64(survey.Asian), 8: float64(survey.Brown),
		}},
	}

	ageVars = survey.Spec[[]string]{
		{Range: survey.Year(1976), Value: []string{"V2105"}},
		{Range: survey.Year(1977), Value: []string{"V22"}},
		{Range: survey.Between(1978, 1979), Value: []string{"V2805"}},
		{Range: survey.Between(1981, 1990), Value: []string{"V805"}},
		{Range: survey.Since(1992), Value: []string{"V8005"}},
	}

	educationVars = survey.Spec[[]string]{
		{Range: survey.Year(1976), Value: []string{"V2511"}},
		{Range: survey.Year(1977), Value: []string{"V136"}},
		{Range: survey.Year(1978), Value: []string{"V2511"}},
		{Range: survey.Year(1979), Value: []string{"V2507"}},
		{Range: survey.Between(1981, 1990), Value: []string{"V318"}},
		{Range: survey.Between(1992, 2006), Value: []string{"V4703"}},
		{Range: survey.Since(2007), Value: []string{"V4803"}},
	}

	personStateVars = survey.Spec[string]{
		{Range: survey.Since(1992), Value: "UF"},
		{Range: survey.Between(1980, 1991), Value: "V10"},
		{Range: survey.Year(1979), Value: "V17"},
		{Range: survey.Year(1978), Value: "V6"},
		{Range: survey.Year(1977), Value: "V2"},
		{Range: survey.Year(1976), Value: "V3"},
	}
	stateCodes = survey.Spec[map[int]float64]{
		{Range: survey.Since(1992), Value: stateTable(survey.StateCodes1992)},
		{Range: survey.Between(1980, 1991), Value: stateTable(survey.StateCodes1981)},
		{Range: survey.Until(1979), Value: stateTable(survey.StateCodes1976)},
	}
)

func stateTable(codes map[int]survey.State) map[int]float64 {
	out := make(map[int]float64, len(codes))
	for k, s := range codes {
		out[k] = float64(s)
	}
	return out
}

func socialFields() []Field {
	return []Field{
		&CodedField{
			name:    "gender_id",
			descr:   "Gender id, using the values of the Gender enum",
			vars:    genderVars,
			codes:   genderCodes,
			unknown: float64(survey.GenderUnknown),
		},
		&CategoryField{
			name:   "gender",
			descr:  "Gender as categorical data",
			source: "gender_id",
			levels: survey.GenderCategories(),
			label:  func(v float64) string { return survey.Gender(v).Category() },
		},
		&FuncField{
			name:  "age",
			descr: "Age of each individual",
			typ:   table.Numeric,
			vars:  ageVars,
			compute: func(fr *Frame) ([]float64, error) {
				vars, _ := ageVars.Select(fr.Year)
				raw := fr.Var(vars[0])
				out := make([]float64, len(raw))
				for i, v := range raw {
					switch {
					// 999 is missing in 1977 too, before the birth year decoding
					case v == 999:
						v = math.NaN()
					case fr.Year == 1977 && v > 800:
						// last three digits of the birth year
						v = 1977 - (v + 1000)
					}
					out[i] = v
				}
				return out, nil
			},
		},
		&CodedField{
			name:    "race_id",
			descr:   "Race id, using the values of the Race enum",
			vars:    raceVars,
			codes:   raceCodes,
			unknown: float64(survey.RaceUnknown),
		},
		&CategoryField{
			name:   "race",
			descr:  "Race as categorical data",
			source: "race_id",
			levels: survey.RaceCategories(),
			label:  func(v float64) string { return survey.Race(v).Category() },
		},
		&FuncField{
			name:    "education_years",
			descr:   "Estimated number of years of study required to reach the respondent's education level",
			typ:     table.Numeric,
			vars:    educationVars,
			compute: educationYears,
		},
	}
}

func educationYears(fr *Frame) ([]float64, error) {
	vars, _ := educationVars.Select(fr.Year)
	raw := fr.Var(vars[0])
	out := make([]float64, len(raw))
	for i, x := range raw {
		var y float64
		switch {
		case fr.Year == 1977:
			// codes are remapped at once, so 9 becomes 10 and not 12
			y = x
			switch x {
			case 9:
				y = 10
			case 10:
				y = 12
			}
		case fr.Year < 1992:
			// 10 means 9 to 11 years of study, 11 means 12 or more.
			y = x - 1
			switch {
			case x == 10:
				y = 10
			case x == 11:
				y = 12
			case x >= 12:
				y = math.NaN()
			}
		default:
			y = x - 1
			if y >= 16 {
				y = math.NaN()
			}
		}
		if y < 0 {
			y = math.NaN()
		}
		out[i] = y
	}
	return out, nil
}

func geographicFields(vars survey.Spec[string]) []Field {
	return []Field{
		&CodedField{
			name:    "state_id",
			descr:   "State of residence, using the values of the State enum",
			vars:    vars,
			codes:   stateCodes,
			unknown: float64(survey.StateUnknown),
			strict:  true,
		},
		&CategoryField{
			name:   "state",
			descr:  "State of residence (two-letter abbreviation)",
			source: "state_id",
			levels: survey.StateCategories(),
			label:  func(v float64) string { return survey.State(v).String() },
		},
		&CategoryField{
			name:   "region",
			descr:  "Macro-region of the state of residence",
			source: "state_id",
			levels: survey.RegionCategories(),
			label:  func(v float64) string { return survey.State(v).Region().String() },
		},
	}
}

func numberOfChildren() Field {
	return &FuncField{
		name:  "number_of_children",
		descr: "Number of children born alive (1984 fertility supplement)",
		typ:   table.Numeric,
		vars: survey.Spec[[]string]{
			{Range: survey.Year(1984), Value: []string{"V2310", "V2309"}},
		},
		compute: func(fr *Frame) ([]float64, error) {
			count, answered := fr.Var("V2310"), fr.Var("V2309")
			out := make([]float64, len(count))
			for i, v := range count {
				switch {
				case answered[i] == 9 || answered[i] == -1:
					v = math.NaN()
				case v == 99 || v == -1:
					v = math.NaN()
				}
				if answered[i] == 4 {
					v = 0
				}
				out[i] = v
			}
			return out, nil
		},
	}
}

func occupationFields() []Field {
	recent := func(name, variable, descr string) Field {
		return NewRawField(name, descr, survey.Spec[Source]{
			from(survey.Since(1992), variable),
			absent(survey.Until(1990)),
		})
	}
	return []Field{
		NewRawField("occupation_week", "Occupation at the week the survey was taken", survey.Spec[Source]{
			from(survey.Since(1992), "V9906"),
			from(survey.Until(1990), "V503"),
		}),
		recent("occupation_year", "V9971", "Occupation in the reference year"),
		recent("occupation_secondary", "V9990", "Occupation in the secondary job"),
		recent("occupation_previous", "V9910", "Occupation in the previous job"),
		recent("occupation_first", "V1298", "First occupation"),
		recent("occupation_father", "V1293", "Occupation of the father"),
		recent("occupation_father_previous", "V1258", "Previous occupation of the father"),
		recent("is_occupied", "V4705", "Occupied in the reference week"),
		recent("is_active", "V4704", "Economically active in the reference week"),
		recent("work_duration", "V4707", "Hours usually worked per week"),
		&FuncField{
			name:  "occupation",
			descr: "Occupation of the respondent",
			typ:   table.Numeric,
			deps:  []string{"occupation_week"},
			compute: func(fr *Frame) ([]float64, error) {
				return append([]float64(nil), fr.Floats("occupation_week")...), nil
			},
		},
	}
}
