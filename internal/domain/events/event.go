// Package events defines the interaction event model: the closed set of
// interaction types, their fixed engagement weights, and the typed payload
// variants carried by each kind of event.
package events

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidEventType is returned when an unrecognized interaction type
// reaches the ingestion boundary. Unknown types are rejected, never coerced
// into a zero weight.
var ErrInvalidEventType = errors.New("invalid event type")

// InteractionType enumerates the closed set of tracked interaction kinds.
type InteractionType string

const (
	TypePageView        InteractionType = "page_view"
	TypeScroll          InteractionType = "scroll"
	TypeClick           InteractionType = "click"
	TypeHover           InteractionType = "hover"
	TypeFormInteraction InteractionType = "form_interaction"
	TypeCalculatorUse   InteractionType = "calculator_use"
	TypeDemoView        InteractionType = "demo_view"
	TypeDownload        InteractionType = "download"
	TypeShare           InteractionType = "share"
	TypeBookmark        InteractionType = "bookmark"
	TypeSearch          InteractionType = "search"
	TypeFilter          InteractionType = "filter"
	TypeSort            InteractionType = "sort"
	TypeRichInteraction InteractionType = "rich_interaction"
)

// engagementWeights is the fixed lookup table that assigns each interaction
// type its engagement weight at creation time. The weight is immutable once
// assigned and is never recomputed from payload data.
var engagementWeights = map[InteractionType]float64{
	TypePageView:        0.1,
	TypeHover:           0.15,
	TypeScroll:          0.2,
	TypeSort:            0.2,
	TypeFilter:          0.25,
	TypeClick:           0.3,
	TypeSearch:          0.3,
	TypeBookmark:        0.5,
	TypeShare:           0.6,
	TypeFormInteraction: 0.7,
	TypeDownload:        0.7,
	TypeDemoView:        0.8,
	TypeCalculatorUse:   0.8,
	TypeRichInteraction: 0.9,
}

// ParseInteractionType validates a raw type string against the closed enum.
func ParseInteractionType(raw string) (InteractionType, error) {
	t := InteractionType(raw)
	if _, ok := engagementWeights[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidEventType, raw)
	}
	return t, nil
}

// WeightFor returns the fixed engagement weight for a known interaction type.
func WeightFor(t InteractionType) float64 {
	return engagementWeights[t]
}

// InteractionEvent is an immutable record of a single visitor interaction.
type InteractionEvent struct {
	ID               string          `json:"id"`
	Type             InteractionType `json:"type"`
	Element          string          `json:"element,omitempty"`
	Page             string          `json:"page"`
	Timestamp        time.Time       `json:"timestamp"`
	Duration         int             `json:"duration,omitempty"` // seconds
	Value            float64         `json:"value,omitempty"`
	Context          Payload         `json:"context,omitempty"`
	EngagementWeight float64         `json:"engagementWeight"`
}

// NewInteractionEvent constructs an event with its engagement weight derived
// from the type lookup table. The raw type is validated here so malformed
// input surfaces at the boundary, not inside scoring math.
func NewInteractionEvent(id, rawType, element, page string, ts time.Time) (InteractionEvent, error) {
	t, err := ParseInteractionType(rawType)
	if err != nil {
		return InteractionEvent{}, err
	}
	return InteractionEvent{
		ID:               id,
		Type:             t,
		Element:          element,
		Page:             page,
		Timestamp:        ts,
		EngagementWeight: WeightFor(t),
	}, nil
}

// PageViewEvent describes a page view received from the tracking collaborator.
type PageViewEvent struct {
	ContentID string    `json:"contentId"`
	URL       string    `json:"url"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversionEvent describes a completed conversion goal.
type ConversionEvent struct {
	ContentID   string    `json:"contentId"`
	Type        string    `json:"type"`
	Value       float64   `json:"value,omitempty"`
	Attribution string    `json:"attribution"`
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"userId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Well-known conversion goal types. The set is advisory, not closed: new
// goals can be configured without a code change.
const (
	ConversionContactForm   = "contact_form"
	ConversionNewsletter    = "newsletter_signup"
	ConversionDownload      = "download"
	ConversionDemoRequest   = "demo_request"
	ConversionPurchase      = "purchase"
	ConversionReferral      = "referral"
	ConversionShareOutbound = "share_outbound"
)

// WebVitalsReading is a content-quality telemetry sample for one URL.
type WebVitalsReading struct {
	ContentID string    `json:"contentId"`
	LCP       float64   `json:"lcp"` // seconds
	FID       float64   `json:"fid"` // milliseconds
	CLS       float64   `json:"cls"` // unitless shift score
	Timestamp time.Time `json:"timestamp"`
}
