package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finwatch/ipo-alert/internal/domain"
)

// Data is everything one run contributes to the outgoing report.
type Data struct {
	MarketDate   string
	RunTime      string
	TotalRecords int
	Threshold    decimal.Decimal
	Matches      []domain.EvaluatedListing
	Errors       []string
	MissingData  int
}

// HasDiagnostics reports whether the error section must be rendered.
// "No qualifying IPOs" and "could not determine due to an error" are
// different outcomes and the section keeps them apart.
func (d Data) HasDiagnostics() bool {
	return len(d.Errors) > 0 || d.MissingData > 0
}

var bodyTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"usd":   USD,
	"price": priceUSD,
}).Parse(`<html><body>
{{if .Matches}}<h2>US IPOs Today (Offer Amount &gt; {{usd .Threshold}})</h2>{{else}}<h2>No US IPOs Today Above Threshold</h2>{{end}}
<p><b>US market date:</b> {{.MarketDate}}<br/>
   <b>Run time:</b> {{.RunTime}}<br/>
   <b>IPO records returned by API:</b> {{.TotalRecords}}</p>
{{if .Matches}}<table border="1" style="border-collapse:collapse; width:100%;">
<tr style="background:#4CAF50;color:white;">
    <th>Ticker</th><th>Company</th><th>Offer Amount</th><th>Price</th><th>Calc</th>
</tr>
{{range .Matches}}<tr>
    <td><b>{{.Symbol}}</b></td>
    <td>{{.Company}}</td>
    <td>{{usd .OfferAmount}}</td>
    <td>{{if .HasPrice}}{{price .Price}}{{else}}N/A{{end}}</td>
    <td>{{.Method}}</td>
</tr>
{{end}}</table>
{{else}}<p>No IPOs found with offer amount &gt; {{usd .Threshold}}.</p>
{{end}}{{if .HasDiagnostics}}<h3>Errors (brief)</h3>
<ul>
{{range .Errors}}<li><code>{{.}}</code></li>
{{end}}{{if .MissingData}}<li><code>{{.MissingData}} record(s) excluded: missing price/shares and no provided total</code></li>
{{end}}</ul>
{{end}}</body></html>
`))

// Compose renders the subject line and HTML body for a run. Listings are
// rendered exactly as evaluated, never invented here.
func Compose(d Data) (subject, body string) {
	if len(d.Matches) > 0 {
		subject = fmt.Sprintf("US IPOs Today > %s — %s", USD(d.Threshold), d.MarketDate)
	} else {
		subject = fmt.Sprintf("No US IPOs Today > %s — %s", USD(d.Threshold), d.MarketDate)
	}

	var sb strings.Builder
	// Static template over plain data, cannot fail at execute time.
	if err := bodyTmpl.Execute(&sb, d); err != nil {
		panic(err)
	}
	return subject, sb.String()
}

// USD formats an amount as whole dollars with thousands separators.
func USD(d decimal.Decimal) string {
	s := d.Round(0).String()

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var out strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(ch)
	}

	if neg {
		return "-$" + out.String()
	}
	return "$" + out.String()
}

func priceUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
