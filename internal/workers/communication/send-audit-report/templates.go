// internal/workers/communication/send-audit-report/templates.go
package sendauditreport

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"math"
	"strconv"
	"strings"
	texttemplate "text/template"

	"lifecycle-audit-workers/internal/audit"
)

const reportSubject = `Your Customer Lifecycle Audit: {{.Results.OverallScore}}/100`

const reportText = `Hi {{.Results.LeadData.CompanyName}},

Your lifecycle marketing score is {{.Results.OverallScore}}/100 against an industry benchmark of {{.Results.IndustryBenchmark}} ({{.Results.LeadData.BenchmarkIndustry}}).

Stage scores:
{{range .Results.LifecycleScores}}- {{.Stage}}: {{.Score}} (benchmark {{printf "%.0f" .Benchmark}}, {{.Status}})
{{end}}
Estimated revenue opportunity: {{money $.Results.Currency .Results.TotalMonthlyOpportunity}}/month, {{money $.Results.Currency .Results.TotalAnnualOpportunity}}/year.
{{if .Results.Recommendations}}
Recommended next steps:
{{range .Results.Recommendations}}- {{.}}
{{end}}{{end}}`

const reportHTML = `<html><body style="font-family: sans-serif">
<h2>Customer Lifecycle Audit for {{.Results.LeadData.CompanyName}}</h2>
<p>Overall score <strong>{{.Results.OverallScore}}/100</strong>, industry benchmark {{.Results.IndustryBenchmark}} ({{.Results.LeadData.BenchmarkIndustry}}).</p>
<table cellpadding="6">
<tr><th align="left">Stage</th><th>Score</th><th>Benchmark</th><th>Status</th></tr>
{{range .Results.LifecycleScores}}<tr><td>{{.Stage}}</td><td>{{.Score}}</td><td>{{printf "%.0f" .Benchmark}}</td><td style="color: {{.Color}}">{{.Status}}</td></tr>
{{end}}</table>
<p>Estimated revenue opportunity: <strong>{{money $.Results.Currency .Results.TotalMonthlyOpportunity}}</strong> per month ({{money $.Results.Currency .Results.TotalAnnualOpportunity}} per year).</p>
{{if .Results.TopOpportunities}}<h3>Top opportunities</h3><ul>
{{range .Results.TopOpportunities}}<li><strong>{{.Title}}</strong>: {{.Description}} ({{money $.Results.Currency .MonthlyRevenue}}/month, {{.Impact}} impact, {{.Effort}} effort)</li>
{{end}}</ul>{{end}}
{{if .Results.Recommendations}}<h3>Recommended next steps</h3><ol>
{{range .Results.Recommendations}}<li>{{.}}</li>
{{end}}</ol>{{end}}
</body></html>`

const alertText = `High-value lifecycle audit lead

Company: {{.Results.LeadData.CompanyName}}
Email: {{.Results.LeadData.Email}}
Industry: {{.Results.LeadData.Industry}}
Overall score: {{.Results.OverallScore}}/100
Monthly opportunity: {{money .Results.Currency .Results.TotalMonthlyOpportunity}}
Audit: {{.AuditID}}`

type templateData struct {
	AuditID string
	Results *audit.AuditResults
}

type renderedReport struct {
	Subject string
	Text    string
	HTML    string
}

type renderer struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
	alert   *texttemplate.Template
}

func newRenderer() *renderer {
	textFuncs := texttemplate.FuncMap{"money": formatMoney}
	return &renderer{
		subject: texttemplate.Must(texttemplate.New("subject").Funcs(textFuncs).Parse(reportSubject)),
		text:    texttemplate.Must(texttemplate.New("text").Funcs(textFuncs).Parse(reportText)),
		html:    htmltemplate.Must(htmltemplate.New("html").Funcs(htmltemplate.FuncMap{"money": formatMoney}).Parse(reportHTML)),
		alert:   texttemplate.Must(texttemplate.New("alert").Funcs(textFuncs).Parse(alertText)),
	}
}

func (r *renderer) report(data templateData) (renderedReport, error) {
	subject, err := executeText(r.subject, data)
	if err != nil {
		return renderedReport{}, err
	}
	text, err := executeText(r.text, data)
	if err != nil {
		return renderedReport{}, err
	}

	var html bytes.Buffer
	if err := r.html.Execute(&html, data); err != nil {
		return renderedReport{}, fmt.Errorf("render html template: %w", err)
	}

	return renderedReport{Subject: subject, Text: text, HTML: html.String()}, nil
}

func (r *renderer) alertMessage(data templateData) (string, error) {
	return executeText(r.alert, data)
}

func executeText(t *texttemplate.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// formatMoney renders v rounded to whole units with comma separators.
func formatMoney(currency string, v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return currency + " " + sign + b.String()
}
