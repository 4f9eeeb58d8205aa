package export

import (
	"html/template"
	"strings"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

type htmlView struct {
	Result    *models.AnalysisResult
	Config    models.AnalysisConfig
	Generated string
}

var htmlFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"scoreClass": func(score int) string {
		switch {
		case score >= 80:
			return "good"
		case score >= 50:
			return "fair"
		}
		return "poor"
	},
}

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(reportTemplate))

// HTML renders a standalone page with inlined styles. All text is escaped.
func HTML(result *models.AnalysisResult, config models.AnalysisConfig) (string, error) {
	view := htmlView{Result: result, Config: config}
	if result.Timestamp != nil {
		view.Generated = result.Timestamp.Format(time.RFC1123)
	}

	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, view); err != nil {
		return "", err
	}
	return sb.String(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Content Analysis Report</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; max-width: 960px; margin: 0 auto; padding: 32px; color: #1f2933; background: #f7f9fb; }
    h1 { margin-bottom: 4px; }
    .meta { color: #52606d; margin-bottom: 24px; }
    .meta span { display: inline-block; margin-right: 16px; }
    .score { display: inline-block; padding: 2px 10px; border-radius: 12px; font-weight: 600; color: #fff; }
    .score.good { background: #2f9e44; }
    .score.fair { background: #f08c00; }
    .score.poor { background: #e03131; }
    .card { background: #fff; border: 1px solid #e4e7eb; border-radius: 8px; padding: 20px; margin-bottom: 16px; }
    .card h3 { margin-top: 0; }
    .type { text-transform: uppercase; font-size: 12px; color: #7b8794; letter-spacing: 0.05em; }
    blockquote { margin: 8px 0; padding: 8px 16px; border-left: 4px solid #3e4c59; background: #f5f7fa; }
    .current { border-left-color: #9aa5b1; color: #52606d; }
    .variants li { margin-bottom: 6px; }
    .keywords span { display: inline-block; background: #e3f2fd; color: #1565c0; border-radius: 4px; padding: 1px 6px; margin: 2px; font-size: 13px; }
    pre { background: #1f2933; color: #f5f7fa; padding: 12px; border-radius: 6px; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>Content Analysis Report</h1>
  <div class="meta">
    {{with .Config.WebsiteURL}}<span><strong>Website:</strong> {{.}}</span>{{end}}
    {{with .Config.TargetAudience}}<span><strong>Audience:</strong> {{.}}</span>{{end}}
    {{with .Config.Keywords}}<span><strong>Keywords:</strong> {{join . ", "}}</span>{{end}}
    <span><strong>Page type:</strong> {{.Result.PageType}}</span>
    {{with .Generated}}<span><strong>Analyzed:</strong> {{.}}</span>{{end}}
  </div>

  <div class="card">
    <h2>Overall SEO Score <span class="score {{scoreClass .Result.OverallSeoScore}}">{{.Result.OverallSeoScore}}/100</span></h2>
    {{with .Result.Recommendations}}
    <h3>Recommendations</h3>
    <ul>{{range .}}<li>{{.}}</li>{{end}}</ul>
    {{end}}
  </div>

  <h2>Sections</h2>
  {{range $i, $s := .Result.Sections}}
  <div class="card">
    <div class="type">{{$s.Type}}</div>
    <h3>{{inc $i}}. {{$s.Label}} <span class="score {{scoreClass $s.SeoScore}}">{{$s.SeoScore}}</span></h3>
    {{with $s.CurrentContent}}<p><strong>Current:</strong></p><blockquote class="current">{{.}}</blockquote>{{end}}
    <p><strong>Suggested:</strong></p>
    <blockquote>{{$s.SuggestedContent}}</blockquote>
    {{with $s.Keywords}}<div class="keywords">{{range .}}<span>{{.}}</span>{{end}}</div>{{end}}
    <p>{{$s.CharacterCount}} characters</p>
    {{with $s.ContentVariants}}
    <p><strong>Variants:</strong></p>
    <ul class="variants">{{range .}}<li><em>{{.Tone}}, {{.LengthCategory}}</em> ({{.SeoScore}}): {{.Content}}{{with .Reasoning}}<br><small>{{.}}</small>{{end}}</li>{{end}}</ul>
    {{end}}
    {{with $s.TechnicalSeoIssues}}<p><strong>Technical issues:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{with $s.AccessibilityIssues}}<p><strong>Accessibility issues:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
  {{end}}

  {{with .Result.TechnicalSEO}}
  <div class="card">
    <h2>Technical SEO</h2>
    {{with .MetaTitle}}<p><strong>Meta title:</strong> {{.}}</p>{{end}}
    {{with .MetaDescription}}<p><strong>Meta description:</strong> {{.}}</p>{{end}}
    {{with .H1Tags}}<p><strong>H1 tags:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{with .ImageAltTexts}}<p><strong>Image alt texts:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{with .InternalLinks}}<p><strong>Internal links:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{with .SchemaMarkup}}<p><strong>Schema markup:</strong></p><pre>{{.}}</pre>{{end}}
  </div>
  {{end}}

  {{with .Result.BrandVoiceAnalysis}}
  <div class="card">
    <h2>Brand Voice</h2>
    <p><strong>Detected tone:</strong> {{.DetectedTone}} &middot; <strong>Consistency:</strong> {{printf "%.0f" .Consistency}}%</p>
    {{with .Suggestions}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
  {{end}}

  {{with .Result.PerformanceMetrics}}
  <div class="card">
    <h2>Performance</h2>
    <p><strong>Estimated load time:</strong> {{printf "%.1f" .EstimatedLoadTime}}s &middot; <strong>Mobile optimization:</strong> {{printf "%.0f" .MobileOptimization}}/100</p>
    {{with .CoreWebVitals}}<p><strong>Core Web Vitals:</strong> LCP {{printf "%.1f" .LCP}}s, FID {{printf "%.0f" .FID}}ms, CLS {{printf "%.2f" .CLS}}</p>{{end}}
  </div>
  {{end}}

  {{with .Result.CompetitorInsights}}
  <h2>Competitor Insights</h2>
  {{range .}}
  <div class="card">
    <h3>{{.Competitor}}</h3>
    {{with .Strengths}}<p><strong>Strengths:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{with .Weaknesses}}<p><strong>Weaknesses:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{with .Differentiators}}<p><strong>Differentiators:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{with .KeywordGaps}}<p><strong>Keyword gaps:</strong></p><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
  {{end}}
  {{end}}
</body>
</html>
`
