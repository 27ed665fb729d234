package analytics

import "time"

// WebVitals holds the latest Core Web Vitals reading for a content item.
type WebVitals struct {
	LCP float64 `json:"lcp"` // seconds
	FID float64 `json:"fid"` // milliseconds
	CLS float64 `json:"cls"`
}

// ContentEngagement accumulates visitor behavior against one content item.
type ContentEngagement struct {
	Views          int     `json:"views"`
	UniqueVisitors int     `json:"uniqueVisitors"`
	AvgTimeOnPage  float64 `json:"avgTimeOnPage"` // seconds
	AvgScrollDepth float64 `json:"avgScrollDepth"`
	Interactions   int     `json:"interactions"`
	Bounces        int     `json:"bounces"`
}

// BounceRate is derived on read; a zero-view item bounces nobody.
func (e ContentEngagement) BounceRate() float64 {
	if e.Views == 0 {
		return 0
	}
	return float64(e.Bounces) / float64(e.Views) * 100
}

// ContentSEO holds search telemetry for one content item.
type ContentSEO struct {
	AvgPosition float64   `json:"avgPosition"`
	Impressions int       `json:"impressions"`
	Clicks      int       `json:"clicks"`
	WebVitals   WebVitals `json:"webVitals"`
}

// CTR returns the click-through rate as a percentage; zero impressions yield
// zero rather than a division error.
func (s ContentSEO) CTR() float64 {
	if s.Impressions == 0 {
		return 0
	}
	return float64(s.Clicks) / float64(s.Impressions) * 100
}

// ContentConversion accumulates goal completions attributed to one item.
type ContentConversion struct {
	Goals       map[string]int `json:"goals"`
	Completions int            `json:"completions"`
	Value       float64        `json:"value"`
}

// Rate returns conversions per hundred views; zero views yield zero.
func (c ContentConversion) Rate(views int) float64 {
	if views == 0 {
		return 0
	}
	return float64(c.Completions) / float64(views) * 100
}

// ContentTechnical holds technical health telemetry for one item.
type ContentTechnical struct {
	LoadTime    float64 `json:"loadTime"` // seconds
	MobileScore float64 `json:"mobileScore"`
}

// ContentMetrics is the aggregate root per content URL/id.
type ContentMetrics struct {
	ContentID       string                  `json:"contentId"`
	URL             string                  `json:"url"`
	PageType        string                  `json:"pageType,omitempty"` // e.g. "service"
	Performance     float64                 `json:"performance"`
	Engagement      ContentEngagement       `json:"engagement"`
	SEO             ContentSEO              `json:"seo"`
	Conversion      ContentConversion       `json:"conversion"`
	Technical       ContentTechnical        `json:"technical"`
	Recommendations []ContentRecommendation `json:"recommendations"`
	LastUpdated     time.Time               `json:"lastUpdated"`
}

// Clone returns a deep copy. Query paths serialize metrics outside the
// record mutex, so they must never hold references into the live aggregate.
func (m *ContentMetrics) Clone() *ContentMetrics {
	if m == nil {
		return nil
	}
	out := *m
	out.Recommendations = append([]ContentRecommendation(nil), m.Recommendations...)
	out.Conversion.Goals = make(map[string]int, len(m.Conversion.Goals))
	for goal, n := range m.Conversion.Goals {
		out.Conversion.Goals[goal] = n
	}
	return &out
}

// NewContentMetrics creates the aggregate for a first-seen content id.
func NewContentMetrics(contentID, url string, now time.Time) *ContentMetrics {
	return &ContentMetrics{
		ContentID:   contentID,
		URL:         url,
		Conversion:  ContentConversion{Goals: make(map[string]int)},
		LastUpdated: now,
	}
}
