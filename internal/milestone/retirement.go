package milestone

import (
	"github.com/rgehrsitz/horizon/internal/calculation"
	"github.com/rgehrsitz/horizon/internal/domain"
	"github.com/shopspring/decimal"
)

// detectRetirement uses the plan in force at the end of the horizon. Ages
// are counted from the first state.
func (s *scan) detectRetirement() ([]domain.Milestone, []string) {
	r := calculation.Resolve(s.latest())
	if !r.DesiredRetirementIncome.IsPositive() {
		return nil, []string{"no desired retirement income configured; retirement eligibility skipped"}
	}
	if r.Mode == domain.ModeHousehold {
		return s.householdRetirement(&r)
	}
	return s.singleRetirement(&r)
}

func (s *scan) singleRetirement(r *calculation.ResolvedParameters) ([]domain.Milestone, []string) {
	est := calculation.FindRetirementDate(s.in.States, r.DesiredRetirementIncome, r.CurrentAge, r.RetirementAge)
	if !est.Achievable() {
		return nil, []string{s.text.sprintf("desired retirement income of %s is not reached within the horizon",
			s.text.money(r.DesiredRetirementIncome))}
	}
	impact := est.SafeWithdrawal.Round(2)
	return []domain.Milestone{{
		ID:    milestoneID(domain.MilestoneRetirementEligibility, calculation.SingleEarnerID, *est.Date),
		Type:  domain.MilestoneRetirementEligibility,
		Date:  *est.Date,
		Title: "Retirement income reachable",
		Description: s.text.sprintf("At age %d a safe withdrawal of %s a year covers the desired %s.",
			*est.Age, s.text.money(impact), s.text.money(r.DesiredRetirementIncome)),
		FinancialImpact: &impact,
		Category:        domain.CategoryRetirement,
		RetirementEligibility: &domain.RetirementEligibilityDetails{
			Age:            *est.Age,
			StateIndex:     est.StateIndex,
			SafeWithdrawal: impact,
			DesiredIncome:  r.DesiredRetirementIncome,
			IncomeShare:    decimal.NewFromInt(1),
		},
	}}, nil
}

// personWithdrawal sees the person's share of household investments plus
// their own super accounts
func personWithdrawal(e calculation.Earner, share decimal.Decimal) calculation.WithdrawalFunc {
	return func(state *domain.FinancialState, age int) decimal.Decimal {
		var super decimal.Decimal
		for _, acct := range e.SuperAccounts {
			super = super.Add(state.SuperBalances[acct.ID])
		}
		return calculation.CalculateSafeWithdrawal(state.Investments.Mul(share), super, age)
	}
}

func (s *scan) householdRetirement(r *calculation.ResolvedParameters) ([]domain.Milestone, []string) {
	var out []domain.Milestone
	var warnings []string
	start := s.in.States[0].Date

	type reached struct {
		earner calculation.Earner
		est    calculation.RetirementEstimate
		share  decimal.Decimal
	}
	var all []reached
	allAchievable := true

	for _, e := range r.Earners {
		share := r.IncomeShare(e.ID, start)
		desired := r.DesiredRetirementIncome.Mul(share).Round(2)
		est := calculation.FindRetirementDateWith(s.in.States, desired, e.CurrentAge, e.RetirementAge, personWithdrawal(e, share))
		if !est.Achievable() {
			allAchievable = false
			warnings = append(warnings, s.text.sprintf("%s does not reach a retirement income of %s within the horizon",
				personName(e), s.text.money(desired)))
			continue
		}
		all = append(all, reached{earner: e, est: est, share: share})

		impact := est.SafeWithdrawal.Round(2)
		out = append(out, domain.Milestone{
			ID:    milestoneID(domain.MilestoneRetirementEligibility, e.ID, *est.Date),
			Type:  domain.MilestoneRetirementEligibility,
			Date:  *est.Date,
			Title: personName(e) + " can retire",
			Description: s.text.sprintf("At age %d, %s's share of the household's assets supports %s a year against a target of %s.",
				*est.Age, personName(e), s.text.money(impact), s.text.money(desired)),
			FinancialImpact: &impact,
			Category:        domain.CategoryRetirement,
			RetirementEligibility: &domain.RetirementEligibilityDetails{
				PersonID:       e.ID,
				PersonName:     e.Name,
				Age:            *est.Age,
				StateIndex:     est.StateIndex,
				SafeWithdrawal: impact,
				DesiredIncome:  desired,
				IncomeShare:    share,
			},
		})
	}

	if !allAchievable || len(all) == 0 {
		return out, warnings
	}

	// the household can retire once its last member can
	latest := all[0]
	for _, p := range all[1:] {
		if p.est.StateIndex > latest.est.StateIndex {
			latest = p
		}
	}
	idx := latest.est.StateIndex
	state := &s.in.States[idx]
	var total decimal.Decimal
	for _, p := range all {
		age := calculation.AgeAt(p.earner.CurrentAge, start, state.Date)
		total = total.Add(personWithdrawal(p.earner, p.share)(state, age))
	}
	total = total.Round(2)

	out = append(out, domain.Milestone{
		ID:    milestoneID(domain.MilestoneRetirementEligibility, "household", state.Date),
		Type:  domain.MilestoneRetirementEligibility,
		Date:  state.Date,
		Title: "Household can retire",
		Description: s.text.sprintf("Every member of the household has reached their retirement income. Combined safe withdrawal is %s a year against a target of %s.",
			s.text.money(total), s.text.money(r.DesiredRetirementIncome)),
		FinancialImpact: &total,
		Category:        domain.CategoryRetirement,
		RetirementEligibility: &domain.RetirementEligibilityDetails{
			Age:            *latest.est.Age,
			StateIndex:     idx,
			SafeWithdrawal: total,
			DesiredIncome:  r.DesiredRetirementIncome,
			IncomeShare:    decimal.NewFromInt(1),
			Household:      true,
		},
	})
	return out, warnings
}

func personName(e calculation.Earner) string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}
