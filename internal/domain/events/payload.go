package events

import "fmt"

// Payload is the typed context carried by an interaction event. Each
// interaction type maps to exactly one payload variant so the behavior
// aggregator can switch exhaustively instead of probing untyped bags.
type Payload interface {
	PayloadKind() InteractionType
}

// ScrollPayload carries the depth reached on a page.
type ScrollPayload struct {
	DepthPercent float64 `json:"depthPercent"`
}

func (ScrollPayload) PayloadKind() InteractionType { return TypeScroll }

// ClickPayload carries the click coordinates for heat-map aggregation.
type ClickPayload struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Element string `json:"element,omitempty"`
}

func (ClickPayload) PayloadKind() InteractionType { return TypeClick }

// FormPayload carries form interaction details.
type FormPayload struct {
	Field     string `json:"field"`
	Completed bool   `json:"completed"`
}

func (FormPayload) PayloadKind() InteractionType { return TypeFormInteraction }

// SearchPayload carries an on-site search query.
type SearchPayload struct {
	Query   string `json:"query"`
	Results int    `json:"results"`
}

func (SearchPayload) PayloadKind() InteractionType { return TypeSearch }

// MediaPayload carries asset details for demo views and downloads.
type MediaPayload struct {
	AssetID string `json:"assetId"`
	Seconds int    `json:"seconds,omitempty"`
}

func (MediaPayload) PayloadKind() InteractionType { return TypeDemoView }

// WidgetPayload carries context for rich 3D/interactive widget usage.
type WidgetPayload struct {
	Widget  string `json:"widget"`
	Actions int    `json:"actions,omitempty"`
}

func (WidgetPayload) PayloadKind() InteractionType { return TypeRichInteraction }

// DecodePayload builds the typed payload variant for an interaction type from
// the raw data bag delivered by the tracking collaborator. Types that carry
// no structured context return nil without error.
func DecodePayload(t InteractionType, data map[string]any) (Payload, error) {
	switch t {
	case TypeScroll:
		return ScrollPayload{DepthPercent: numField(data, "depthPercent")}, nil
	case TypeClick:
		return ClickPayload{
			X:       int(numField(data, "x")),
			Y:       int(numField(data, "y")),
			Element: strField(data, "element"),
		}, nil
	case TypeFormInteraction:
		return FormPayload{
			Field:     strField(data, "field"),
			Completed: boolField(data, "completed"),
		}, nil
	case TypeSearch:
		return SearchPayload{
			Query:   strField(data, "query"),
			Results: int(numField(data, "results")),
		}, nil
	case TypeDemoView, TypeDownload:
		return MediaPayload{
			AssetID: strField(data, "assetId"),
			Seconds: int(numField(data, "seconds")),
		}, nil
	case TypeRichInteraction, TypeCalculatorUse:
		return WidgetPayload{
			Widget:  strField(data, "widget"),
			Actions: int(numField(data, "actions")),
		}, nil
	case TypePageView, TypeHover, TypeBookmark, TypeShare, TypeFilter, TypeSort:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEventType, t)
	}
}

func numField(data map[string]any, key string) float64 {
	if data == nil {
		return 0
	}
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func strField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func boolField(data map[string]any, key string) bool {
	if data == nil {
		return false
	}
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}
