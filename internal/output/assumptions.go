package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Rates are compounded to the step interval: (1 + annual)^(1/steps) - 1",
	"Recurring income and expenses are spread evenly across the year",
	"Household members are taxed separately against the same bracket table",
	"Offset balances are part of cash and reduce interest, not principal",
	"Super is counted toward retirement income from age 60 only",
	"Safe withdrawal is 4% of accessible assets a year",
}
