package health

import "fmt"

// defaultValuation applies when the asking price or revenue is missing.
const defaultValuation = 30

type saleReadinessScorer struct {
	bench Benchmarks
	w     SaleReadinessWeights
}

// multipleScore bands an asking-price multiple relative to the category
// benchmark multiple.
func multipleScore(relative float64) float64 {
	switch {
	case relative <= 0.8:
		return 95
	case relative <= 1.0:
		return 80
	case relative <= 1.2:
		return 65
	case relative <= 1.5:
		return 45
	case relative <= 2.0:
		return 25
	default:
		return 10
	}
}

func (s saleReadinessScorer) score(in input) ScoreBreakdown {
	fin, op := in.fin, in.op
	ind := s.bench.Industry(op.Category)
	out := newBreakdown()

	// Valuation.
	valuation := float64(defaultValuation)
	if fin.AskingPrice == nil || fin.Revenue == nil || *fin.Revenue <= 0 || *fin.AskingPrice <= 0 {
		out.Factors = append(out.Factors, "Valuation cannot be assessed without an asking price and revenue")
		out.Recommendations = append(out.Recommendations,
			"Set an asking price supported by revenue and earnings")
	} else {
		var v blend
		ask := *fin.AskingPrice
		ratios := []struct {
			key       string
			label     string
			base      *float64
			benchmark float64
			weight    float64
		}{
			{"revenueMultiple", "revenue", fin.Revenue, ind.Valuation.Revenue, s.w.RevenueMultiple},
			{"ebitdaMultiple", "EBITDA", fin.EBITDA, ind.Valuation.EBITDA, s.w.EBITDAMultiple},
			{"sdeMultiple", "earnings", fin.Profit, ind.Valuation.SDE, s.w.SDEMultiple},
		}
		for _, r := range ratios {
			m, ok := safeRatio(&ask, r.base)
			if !ok || r.benchmark <= 0 {
				continue
			}
			sc := multipleScore(m / r.benchmark)
			v.add(sc, r.weight)
			out.Components[r.key] = sc
			out.Factors = append(out.Factors, fmt.Sprintf("Asking %s is %s %s against a typical %s",
				money(ask), multiple(m), r.label, multiple(r.benchmark)))
		}
		valuation = v.valueOr(defaultValuation)
		switch {
		case valuation >= 80:
			out.Factors = append(out.Factors, "Attractively priced for the category")
		case valuation < 50:
			out.Recommendations = append(out.Recommendations,
				"Revisit the asking price; it is high relative to category multiples")
		}
	}

	// Attractiveness.
	var attract blend
	attract.add(ind.MarketAttractiveness, s.w.CategoryAttractiveness)
	presentation := in.rules.presentationScore(op.Description)
	attract.add(presentation, s.w.Presentation)
	disclosed := countPresent(fin.Revenue, fin.Profit, fin.CashFlow, fin.EBITDA,
		fin.GrossMargin, fin.NetMargin, fin.AskingPrice, fin.YearlyGrowth)
	disclosure := float64(disclosed) / 8 * 100
	attract.add(disclosure, s.w.Disclosure)
	attractiveness := attract.valueOr(0)
	out.Components["presentation"] = presentation
	out.Components["disclosure"] = disclosure
	out.Factors = append(out.Factors, fmt.Sprintf("%d of 8 key financial figures disclosed", disclosed))
	if disclosed < 5 {
		out.Recommendations = append(out.Recommendations,
			"Disclose cash flow, EBITDA and margins to build buyer trust")
	}
	if presentation < 50 {
		out.Recommendations = append(out.Recommendations,
			"Write a fuller listing description that highlights profitability and growth")
	}

	// Documentation.
	var doc blend
	finDocs := float64(countPresent(fin.Revenue, fin.Profit, fin.CashFlow, fin.EBITDA, fin.GrossMargin,
		fin.NetMargin, fin.MonthlyRevenue, fin.YearlyGrowth, fin.AskingPrice, fin.TotalAssets,
		fin.Liabilities, fin.Inventory, fin.Equipment, fin.RealEstate)) / 14 * 100
	opDocs := float64(operationalFieldsPresent(op)) / 9 * 100
	descQuality := descriptionQuality(op.Description)
	doc.add(finDocs, s.w.FinancialCompleteness)
	doc.add(opDocs, s.w.OperationalCompleteness)
	doc.add(descQuality, s.w.DescriptionQuality)
	documentation := doc.valueOr(0)
	if documentation < 50 {
		out.Recommendations = append(out.Recommendations,
			"Prepare complete financial statements and operating details for due diligence")
	}

	out.Components["valuation"] = valuation
	out.Components["attractiveness"] = attractiveness
	out.Components["documentation"] = documentation

	out.Score = clamp(valuation*s.w.Valuation+attractiveness*s.w.Attractiveness+documentation*s.w.Documentation, 0, 100)
	out.Available = true
	return out
}

func countPresent(values ...*float64) int {
	n := 0
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}

func operationalFieldsPresent(op OperationalData) int {
	n := 0
	if op.Established != nil {
		n++
	}
	if op.Employees != nil {
		n++
	}
	if op.CustomerBase != nil {
		n++
	}
	for _, s := range []string{op.HoursOfOperation, op.Seasonality, op.Competition, op.Description, string(op.Category)} {
		if s != "" {
			n++
		}
	}
	if len(op.DaysOpen) > 0 {
		n++
	}
	return n
}
