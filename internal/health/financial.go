package health

import "fmt"

type financialScorer struct {
	bench Benchmarks
	w     FinancialWeights
}

func (s financialScorer) score(in input) ScoreBreakdown {
	fin, op := in.fin, in.op
	ind := s.bench.Industry(op.Category)
	out := newBreakdown()

	// Profitability.
	var profit blend
	if fin.GrossMargin != nil && finite(*fin.GrossMargin) {
		gm := *fin.GrossMargin
		sc := NormalizeToScore(gm, ind.GrossMargin)
		profit.add(sc, s.w.GrossMargin)
		out.Components["grossMargin"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Gross margin of %s is %s for %s businesses (average %s)",
			pct(gm), band(sc), op.Category.Label(), pct(ind.GrossMargin.Average)))
	}
	if nm, ok := netMargin(fin); ok {
		sc := NormalizeToScore(nm, ind.NetMargin)
		profit.add(sc, s.w.NetMargin)
		out.Components["netMargin"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Net margin of %s is %s (industry average %s)",
			pct(nm), band(sc), pct(ind.NetMargin.Average)))
	}
	if em, ok := safeRatio(fin.EBITDA, fin.Revenue); ok {
		sc := NormalizeToScore(em, ind.EBITDAMargin)
		profit.add(sc, s.w.EBITDAMargin)
		out.Components["ebitdaMargin"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("EBITDA margin of %s is %s", pct(em), band(sc)))
	}

	// Liquidity.
	var liquidity blend
	if cf, ok := safeRatio(fin.CashFlow, fin.Revenue); ok {
		sc := NormalizeToScore(cf, s.bench.CashFlowRatio)
		liquidity.add(sc, s.w.CashFlow)
		out.Components["cashFlowRatio"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Cash flow converts %s of revenue", pct(cf)))
	}
	if wc, ok := workingCapitalRatio(fin); ok {
		sc := NormalizeToScore(wc, s.bench.WorkingCapitalRatio)
		liquidity.add(sc, s.w.WorkingCapital)
		out.Components["workingCapitalRatio"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Working capital equals %s of revenue", pct(wc)))
	}

	// Efficiency.
	var efficiency blend
	if rpe, ok := revenuePerEmployee(fin, op); ok {
		sc := NormalizeToScore(rpe, ind.RevenuePerEmployee)
		efficiency.add(sc, s.w.RevenuePerEmployee)
		out.Components["revenuePerEmployee"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Revenue per employee of %s is %s (industry average %s)",
			money(rpe), band(sc), money(ind.RevenuePerEmployee.Average)))
	}
	if at, ok := safeRatio(fin.Revenue, fin.TotalAssets); ok {
		sc := NormalizeToScore(at, s.bench.AssetTurnover)
		efficiency.add(sc, s.w.AssetTurnover)
		out.Components["assetTurnover"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Asset turnover of %s", multiple(at)))
	}

	var total blend
	if v, ok := profit.value(); ok {
		total.add(v, s.w.Profitability)
		out.Components["profitability"] = v
		if v < 50 {
			out.Recommendations = append(out.Recommendations,
				"Improve profit margins through pricing review and cost control")
		}
	}
	if v, ok := liquidity.value(); ok {
		total.add(v, s.w.Liquidity)
		out.Components["liquidity"] = v
		if v < 50 {
			out.Recommendations = append(out.Recommendations,
				"Strengthen cash flow and working capital reserves")
		}
	}
	if v, ok := efficiency.value(); ok {
		total.add(v, s.w.Efficiency)
		out.Components["efficiency"] = v
		if v < 50 {
			out.Recommendations = append(out.Recommendations,
				"Raise revenue per employee or put idle assets to work")
		}
	}

	v, ok := total.value()
	if !ok {
		out.Factors = append(out.Factors, "Insufficient financial data to assess financial health")
		out.Recommendations = append(out.Recommendations,
			"Provide revenue, profit and margin figures to enable a financial assessment")
		return out
	}
	out.Score = v
	out.Available = true
	return out
}

// netMargin prefers the reported margin and falls back to profit/revenue.
func netMargin(fin FinancialData) (float64, bool) {
	if fin.NetMargin != nil && finite(*fin.NetMargin) {
		return *fin.NetMargin, true
	}
	return safeRatio(fin.Profit, fin.Revenue)
}

func workingCapitalRatio(fin FinancialData) (float64, bool) {
	if fin.TotalAssets == nil || fin.Liabilities == nil {
		return 0, false
	}
	wc := *fin.TotalAssets - *fin.Liabilities
	return safeRatio(&wc, fin.Revenue)
}

func revenuePerEmployee(fin FinancialData, op OperationalData) (float64, bool) {
	if op.Employees == nil || *op.Employees <= 0 {
		return 0, false
	}
	n := float64(*op.Employees)
	return safeRatio(fin.Revenue, &n)
}

func newBreakdown() ScoreBreakdown {
	return ScoreBreakdown{
		Components:      map[string]float64{},
		Factors:         []string{},
		Recommendations: []string{},
	}
}
