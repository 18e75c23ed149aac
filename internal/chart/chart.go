package chart

import (
	"fmt"
	"math"
	"strings"

	"constructora/internal/currency"
	"constructora/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
)

// Yearly growth assumption for the sale price projection.
const growthRate = 0.05

// GrowthSeries projects the sale price per m2 over the given number of
// years at 5% yearly growth, already converted to the display currency.
// Index 0 is the current price.
func GrowthSeries(p *domain.Project, cur currency.Code, years int) []float64 {
	base := currency.Convert(p.SalePricePerM2, cur)
	series := make([]float64, years+1)
	for t := 0; t <= years; t++ {
		series[t] = base * math.Pow(1+growthRate, float64(t))
	}
	return series
}

// RenderGrowth draws the projection as a terminal line chart.
func RenderGrowth(p *domain.Project, cur currency.Code, years int) string {
	series := GrowthSeries(p, cur, years)
	caption := fmt.Sprintf("Sale price per m2 (%s), 5%% yearly - project %s", cur, p.ID)
	return asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(60),
		asciigraph.Caption(caption),
	)
}

// RenderBalance draws the investment (land + construction) against the 20%
// profit as two proportional bars in the display currency.
func RenderBalance(p *domain.Project, cur currency.Code) string {
	investment := currency.Convert(p.TotalBudget, cur)
	profit := currency.Convert(p.Profit, cur)

	var b strings.Builder
	fmt.Fprintf(&b, "Balance - project %s (%s)\n", p.ID, cur)
	fmt.Fprintf(&b, "  Investment : %s %s %s  %s\n",
		currency.Symbol(cur), humanize.FormatFloat("#,###.##", investment), cur, bar(investment, investment))
	fmt.Fprintf(&b, "  Profit     : %s %s %s  %s\n",
		currency.Symbol(cur), humanize.FormatFloat("#,###.##", profit), cur, bar(profit, investment))
	return b.String()
}

// bar scales v against the largest value onto a 40-character bar.
func bar(v, maxV float64) string {
	const width = 40
	if maxV <= 0 {
		return ""
	}
	n := int(math.Round(v / maxV * width))
	if n < 0 {
		n = 0
	}
	return strings.Repeat("#", n)
}
