package extract

import (
	"strings"

	"github.com/eino-contrib/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

// instruction is sent with every extract request.
const instruction = `Extract detailed information about the company's product offering, including:
- Company name and basic information
- Pricing details, plans and tiers
- Key features and main capabilities
- Technology stack and technical details
- Marketing focus and target audience
- Customer feedback and testimonials

Analyze the entire website content to provide comprehensive information for each field.`

// payload is the shape requested from the extraction provider. The
// source URL is set by the caller, never by the provider.
type payload struct {
	CompanyName      string   `json:"company_name" jsonschema_description:"Name of the company"`
	Pricing          string   `json:"pricing" jsonschema_description:"Pricing details, tiers, and plans"`
	KeyFeatures      []string `json:"key_features" jsonschema_description:"Main features and capabilities of the product or service"`
	TechStack        []string `json:"tech_stack" jsonschema_description:"Technologies, frameworks, and tools used"`
	MarketingFocus   string   `json:"marketing_focus" jsonschema_description:"Main marketing angles and target audience"`
	CustomerFeedback string   `json:"customer_feedback" jsonschema_description:"Customer testimonials, reviews, and feedback"`
}

// decodePayload reads the provider's answer leniently. Providers do not
// always honor the schema: scalars arrive as objects or lists, and lists
// arrive as bare strings or hold objects. Those are flattened to text
// instead of failing the whole record.
func decodePayload(data []byte) (payload, error) {
	if !gjson.ValidBytes(data) {
		return payload{}, eris.New("extract: decode payload: invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return payload{}, eris.Errorf("extract: decode payload: expected object, got %s", doc.Type)
	}
	return payload{
		CompanyName:      flatten(doc.Get("company_name")),
		Pricing:          flatten(doc.Get("pricing")),
		KeyFeatures:      flattenList(doc.Get("key_features")),
		TechStack:        flattenList(doc.Get("tech_stack")),
		MarketingFocus:   flatten(doc.Get("marketing_focus")),
		CustomerFeedback: flatten(doc.Get("customer_feedback")),
	}, nil
}

// flatten renders any JSON value as one line of text. Object members
// become "key: value" pairs; array items and pairs are joined with "; ".
func flatten(v gjson.Result) string {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return ""
	case v.IsArray():
		var parts []string
		for _, it := range v.Array() {
			if s := flatten(it); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case v.IsObject():
		var parts []string
		v.ForEach(func(key, val gjson.Result) bool {
			if s := flatten(val); s != "" {
				parts = append(parts, key.String()+": "+s)
			}
			return true
		})
		return strings.Join(parts, "; ")
	default:
		return strings.TrimSpace(v.String())
	}
}

// flattenList accepts an array, a single value, or null.
func flattenList(v gjson.Result) []string {
	if !v.IsArray() {
		if s := flatten(v); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, it := range v.Array() {
		if s := flatten(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JSONSchema returns the JSON schema describing payload, inlined so the
// provider receives a single object definition.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := r.Reflect(&payload{})
	s.Version = ""
	return s
}
