package domain

import "math"

type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// ComputeTotals sums the line totals and splits them into subtotal, tax and
// total. When taxInclusive is set the line totals already contain tax.
func ComputeTotals(lines []Line, taxInclusive bool, rate float64) Totals {
	var raw float64
	for _, l := range lines {
		raw += l.Total
	}

	if taxInclusive {
		tax := Round2(raw - raw/(1+rate))
		return Totals{Subtotal: raw - tax, Tax: tax, Total: raw}
	}
	tax := Round2(raw * rate)
	return Totals{Subtotal: raw, Tax: tax, Total: raw + tax}
}

// Round2 rounds to cents, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Apply recomputes every line total and the invoice totals in place.
func (i *Invoice) Apply(rate float64) {
	for idx := range i.Lines {
		i.Lines[idx].Total = i.Lines[idx].Quantity * i.Lines[idx].UnitPrice
	}
	t := ComputeTotals(i.Lines, i.TaxInclusive, rate)
	i.Subtotal = t.Subtotal
	i.Tax = t.Tax
	i.Total = t.Total
}
