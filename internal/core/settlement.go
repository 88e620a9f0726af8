// Package core holds the household ledger domain: months, entries, and the
// settlement calculation.
//
// The settlement convention: each person's fair share of the month's net cash
// flow is the allowance, (totalIncome+totalExpense)/2. A positive settlement
// means the husband transfers that amount to the wife; negative means the
// reverse. Carryover entries never participate in the calculation.
package core

import "github.com/shopspring/decimal"

// Calculation is the settlement breakdown for one month. Integer sums stay in
// whole currency units; Allowance and Settlement are decimals because halving
// an odd net total produces an exact .5 that must survive until formatting.
type Calculation struct {
	TotalIncome    int64           `json:"totalIncome"`
	TotalExpense   int64           `json:"totalExpense"`
	HusbandIncome  int64           `json:"husbandIncome"`
	WifeIncome     int64           `json:"wifeIncome"`
	HusbandExpense int64           `json:"husbandExpense"`
	WifeExpense    int64           `json:"wifeExpense"`
	HusbandTotal   int64           `json:"husbandTotal"`
	WifeTotal      int64           `json:"wifeTotal"`
	Allowance      decimal.Decimal `json:"allowance"`
	Settlement     decimal.Decimal `json:"settlement"`
}

var two = decimal.NewFromInt(2)

// Calculate computes the settlement breakdown from one month's income and
// expense entries. It is a pure function, total over any finite input
// including empty slices, and performs no validation: it just sums whatever
// amounts it is given, in whatever order.
func Calculate(incomes, expenses []Entry) Calculation {
	var c Calculation

	for _, e := range incomes {
		c.TotalIncome += e.Amount
		if e.Person == PersonHusband {
			c.HusbandIncome += e.Amount
		} else {
			c.WifeIncome += e.Amount
		}
	}
	for _, e := range expenses {
		c.TotalExpense += e.Amount
		if e.Person == PersonHusband {
			c.HusbandExpense += e.Amount
		} else {
			c.WifeExpense += e.Amount
		}
	}

	c.HusbandTotal = c.HusbandIncome + c.HusbandExpense
	c.WifeTotal = c.WifeIncome + c.WifeExpense

	c.Allowance = decimal.NewFromInt(c.TotalIncome + c.TotalExpense).Div(two)
	c.Settlement = decimal.NewFromInt(c.HusbandTotal).Sub(c.Allowance)

	return c
}
