package fields

import (
	"gopnad/domain/survey"
	"gopnad/domain/table"
)

func incomeFields() []Field {
	since92, y8190 := survey.Since(1992), survey.Between(1981, 1990)
	y79, y78, y77, y76 := survey.Year(1979), survey.Year(1978), survey.Year(1977), survey.Year(1976)

	return []Field{
		// main job
		NewIncomeField("income_work_main_money_fixed", "Fixed monthly salary", survey.Spec[Source]{
			from(since92, "V9532"), from(y8190, "V537"), from(y79, "V2318"),
			from(y78, "V2426"), from(y77, "V75"), from(y76, "V2308"),
		}),
		NewIncomeField("income_work_main_money_variable", "Variable part of the monthly salary", survey.Spec[Source]{
			absent(survey.Since(1981)), from(y79, "V2338"), from(y78, "V2446"),
			from(y77, "V76"), from(y76, "V2358"),
		}),
		NewIncomeField("income_work_main_products", "Salary received in products", survey.Spec[Source]{
			from(since92, "V9535"), from(y8190, "V538"), from(y79, "V2339"),
			from(y78, "V2447"), from(y77, "V77"), from(y76, "V2359"),
		}),
		NewSumField("income_work_main_money", "Fixed and variable money income from the main job",
			"income_work_main_money_variable", "income_work_main_money_fixed"),
		// PNAD publishes the same total as V4718 from 1992 on.
		NewSumField("income_work_main", "Total income from the main job",
			"income_work_main_money", "income_work_main_products"),

		// secondary job
		NewIncomeField("income_work_secondary_money_fixed", "Salary of the secondary job (fixed part)", survey.Spec[Source]{
			from(since92, "V9982"), absent(survey.Between(1980, 1990)), from(y79, "V2427"), absent(survey.Until(1978)),
		}),
		NewIncomeField("income_work_secondary_money_variable", "Salary of the secondary job (variable part)", survey.Spec[Source]{
			absent(survey.Since(1980)), from(y79, "V2457"), absent(survey.Until(1978)),
		}),
		NewIncomeField("income_work_secondary_products", "Salary of the secondary job (products)", survey.Spec[Source]{
			from(since92, "V9985"), absent(survey.Between(1980, 1990)), from(y79, "V2458"), absent(survey.Until(1978)),
		}),
		NewSumField("income_work_secondary_money", "Money income from the secondary job",
			"income_work_secondary_money_fixed", "income_work_secondary_money_variable"),
		NewSumField("income_work_secondary", "Total income from the secondary job",
			"income_work_secondary_money", "income_work_secondary_products"),

		// other jobs
		NewIncomeField("income_work_extra_money_fixed", "Fixed salary of jobs other than the main and secondary", survey.Spec[Source]{
			from(since92, "V1022"), from(y8190, "V549"), from(y79, "V2319"),
			from(y78, "V2428"), from(y77, "V85"), from(y76, "V2362"),
		}),
		NewIncomeField("income_work_extra_money_variable", "Variable salary of jobs other than the main and secondary", survey.Spec[Source]{
			absent(survey.Since(1981)), from(y79, "V2349"), from(y78, "V2468"),
			from(y77, "V86"), absent(y76),
		}),
		NewIncomeField("income_work_extra_products", "Products received from jobs other than the main and secondary", survey.Spec[Source]{
			from(since92, "V1025"), from(y8190, "V550"), from(y79, "V2350"),
			from(y78, "V2469"), from(y77, "V87"), absent(y76),
		}),
		NewSumField("income_work_extra_money", "Money income from jobs other than the main and secondary",
			"income_work_extra_money_fixed", "income_work_extra_money_variable"),
		NewSumField("income_work_extra", "Total income from jobs other than the main and secondary",
			"income_work_extra_money", "income_work_extra_products"),
		NewSumField("income_work_other_money", "Money income from every job but the main one",
			"income_work_extra_money", "income_work_secondary_money"),
		NewSumField("income_work_other_products", "Products received from every job but the main one",
			"income_work_extra_products", "income_work_secondary_products"),
		NewSumField("income_work_other", "Total income from every job but the main one",
			"income_work_other_money", "income_work_other_products"),
		NewSumField("income_work_money", "Money income from work",
			"income_work_extra_money", "income_work_main_money"),
		NewSumField("income_work_products", "Products received from work",
			"income_work_extra_products", "income_work_main_products"),

		// social security
		NewIncomeField("income_retirement_main", "Main retirement income (retirement and pension before 1992)", survey.Spec[Source]{
			from(since92, "V1252"), from(y8190, "V578"), from(y79, "V2350"),
			from(y78, "V2479"), from(y77, "V90"), from(y76, "V2365"),
		}),
		NewIncomeField("income_retirement_other", "Other retirement income", survey.Spec[Source]{
			from(since92, "V1258"), absent(survey.Until(1990)),
		}),
		NewIncomeField("income_pension_main", "Main pension income", survey.Spec[Source]{
			from(since92, "V1255"), from(y8190, "V579"), absent(y79),
			from(y78, "V2480"), from(y77, "V91"), absent(y76),
		}),
		NewIncomeField("income_pension_other", "Other pension income", survey.Spec[Source]{
			from(since92, "V1261"), absent(survey.Until(1990)),
		}),
		NewIncomeField("income_permanence_bonus", "Paid to workers that could retire but keep working", survey.Spec[Source]{
			from(since92, "V1264"), from(y8190, "V580"), absent(survey.Until(1979)),
		}),
		NewSumField("income_pension", "Total pension income", "income_pension_main", "income_pension_other"),
		NewSumField("income_retirement", "Total retirement income", "income_retirement_main", "income_retirement_other"),
		NewSumField("income_social", "Social security income",
			"income_pension", "income_retirement", "income_permanence_bonus"),

		// capital
		NewIncomeField("income_rent", "Rent received", survey.Spec[Source]{
			from(since92, "V1267"), from(y8190, "V581"), from(y79, "V2363"),
			from(y78, "V2482"), from(y77, "V93"), from(y76, "V2363"),
		}),
		NewIncomeField("income_investments", "Financial yield other than rents", survey.Spec[Source]{
			from(since92, "V1273"), absent(y8190), from(y79, "V2361"),
			from(y78, "V2483"), from(y77, "V95"), absent(y76),
		}),
		NewSumField("income_capital", "All sources of capital income", "income_rent", "income_investments"),

		// other sources
		NewIncomeField("income_other", "Income from other sources", survey.Spec[Source]{
			absent(since92), from(y8190, "V582"), absent(survey.Between(1978, 1979)),
			from(y77, "V96"), from(y76, "V2366"),
		}),
		NewIncomeField("income_donation", "Donations received", survey.Spec[Source]{
			from(since92, "V1270"), absent(y8190), from(y79, "V2362"),
			from(y78, "V2481"), from(y77, "V92"), from(y76, "V2364"),
		}),
		NewSumField("income_misc", "Donations and other income", "income_donation", "income_other"),

		// totals
		&FuncField{
			name:  "income_work",
			descr: "Sum of all income sources due to labor",
			typ:   table.Numeric,
			deps:  []string{"income_work_main", "income_work_other"},
			// Totals declared by people who do not detail each job.
			optional: survey.Spec[[]string]{
				{Range: survey.Since(1993), Value: []string{"V7122", "V7125"}},
			},
			compute: func(fr *Frame) ([]float64, error) {
				total := SumNA(fr.Floats("income_work_main"), fr.Floats("income_work_other"))
				if fr.Year > 1992 && fr.HasVar("V7122") && fr.HasVar("V7125") {
					total = SumNA(total,
						dropSentinels(fr.Var("V7122"), IncomeMissing),
						dropSentinels(fr.Var("V7125"), IncomeMissing))
				}
				return total, nil
			},
		},
		NewSumField("income", "Total income of the individual",
			"income_work", "income_social", "income_capital", "income_misc"),

		// family and household
		NewIncomeField("income_household", "Total household income", survey.Spec[Source]{
			from(since92, "V4721"), from(y8190, "V410"), absent(survey.Until(1979)),
		}),
		NewIncomeField("income_family", "Total family income", survey.Spec[Source]{
			from(since92, "V4722"), from(y8190, "V5010"), absent(survey.Until(1979)),
		}),
		NewIncomeField("income_household_per_capita", "Household income per resident", survey.Spec[Source]{
			from(since92, "V4742"), absent(survey.Until(1990)),
		}),
		NewIncomeField("income_family_per_capita", "Family income per member", survey.Spec[Source]{
			from(since92, "V4750"), absent(survey.Until(1990)),
		}),
	}
}
