// Package templates provides email template components
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
)

// DigestEmailProps carries the weekly analytics digest numbers.
type DigestEmailProps struct {
	PeriodLabel    string
	UniqueVisitors int
	PageViews      int
	Conversions    int
	AvgEngagement  float64
	TopPerformers  []DigestPerformer
	AtRiskVisitors int
}

// DigestPerformer is one row in the top-content table.
type DigestPerformer struct {
	URL   string
	Score float64
}

type digestTemplateData struct {
	PeriodLabel    string
	UniqueVisitors int
	PageViews      int
	Conversions    int
	AvgEngagement  string
	TopPerformers  []digestPerformerRow
	AtRiskVisitors int
}

type digestPerformerRow struct {
	URL   string
	Score string
}

var digestEmailTemplate = template.Must(template.New("digestEmail").Parse(`
<h1 style="font-family: Helvetica, sans-serif; font-size: 24px; font-weight: bold; margin: 0; margin-bottom: 16px;">Your engagement digest</h1>
<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">Here is how your audience engaged over the {{.PeriodLabel}}.</p>
<table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; width: 100%; margin-bottom: 16px;" width="100%">
  <tr>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; color: #6e7681;">Unique visitors</td>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; text-align: right; font-weight: bold;" align="right">{{.UniqueVisitors}}</td>
  </tr>
  <tr>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; color: #6e7681;">Page views</td>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; text-align: right; font-weight: bold;" align="right">{{.PageViews}}</td>
  </tr>
  <tr>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; color: #6e7681;">Conversions</td>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; text-align: right; font-weight: bold;" align="right">{{.Conversions}}</td>
  </tr>
  <tr>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; color: #6e7681;">Average engagement score</td>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; text-align: right; font-weight: bold;" align="right">{{.AvgEngagement}}</td>
  </tr>
  <tr>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; color: #6e7681;">Visitors at churn risk</td>
    <td style="font-family: Helvetica, sans-serif; font-size: 16px; padding: 8px 0; text-align: right; font-weight: bold;" align="right">{{.AtRiskVisitors}}</td>
  </tr>
</table>
{{if .TopPerformers}}
<h2 style="font-family: Helvetica, sans-serif; font-size: 18px; font-weight: bold; margin: 0; margin-bottom: 8px;">Top performing content</h2>
<table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; width: 100%;" width="100%">
  {{range .TopPerformers}}
  <tr>
    <td style="font-family: Helvetica, sans-serif; font-size: 14px; padding: 4px 0; color: #0b5394;">{{.URL}}</td>
    <td style="font-family: Helvetica, sans-serif; font-size: 14px; padding: 4px 0; text-align: right;" align="right">{{.Score}}</td>
  </tr>
  {{end}}
</table>
{{end}}`))

// GetDigestEmailContent renders the inner HTML for a weekly digest email
func GetDigestEmailContent(props DigestEmailProps) string {
	data := digestTemplateData{
		PeriodLabel:    props.PeriodLabel,
		UniqueVisitors: props.UniqueVisitors,
		PageViews:      props.PageViews,
		Conversions:    props.Conversions,
		AvgEngagement:  fmt.Sprintf("%.1f", props.AvgEngagement),
		AtRiskVisitors: props.AtRiskVisitors,
	}
	for _, p := range props.TopPerformers {
		data.TopPerformers = append(data.TopPerformers, digestPerformerRow{
			URL:   p.URL,
			Score: fmt.Sprintf("%.1f", p.Score),
		})
	}

	var buf bytes.Buffer
	if err := digestEmailTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to render digest email: %v", err)
		return ""
	}
	return buf.String()
}
