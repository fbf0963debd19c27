package model

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Placeholder is used for any competitor field the extractor could not fill.
const Placeholder = "N/A"

// MaxListItems caps KeyFeatures and TechStack at extraction time.
const MaxListItems = 5

// Seed identifies the subject company for a run.
type Seed struct {
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Empty reports whether neither a URL nor a description was given.
func (s Seed) Empty() bool {
	return strings.TrimSpace(s.URL) == "" && strings.TrimSpace(s.Description) == ""
}

// Trimmed returns the seed with surrounding whitespace removed.
func (s Seed) Trimmed() Seed {
	return Seed{
		URL:         strings.TrimSpace(s.URL),
		Description: strings.TrimSpace(s.Description),
	}
}

// Competitor is the structured record extracted for one discovered
// competitor. After Normalize every field is populated.
type Competitor struct {
	SourceURL        string   `json:"source_url" yaml:"source_url"`
	CompanyName      string   `json:"company_name" yaml:"company_name"`
	Pricing          string   `json:"pricing" yaml:"pricing"`
	KeyFeatures      []string `json:"key_features" yaml:"key_features"`
	TechStack        []string `json:"tech_stack" yaml:"tech_stack"`
	MarketingFocus   string   `json:"marketing_focus" yaml:"marketing_focus"`
	CustomerFeedback string   `json:"customer_feedback" yaml:"customer_feedback"`
}

// Normalize fills absent values with placeholders and caps list fields.
func (c *Competitor) Normalize() {
	c.CompanyName = scalar(c.CompanyName)
	c.Pricing = scalar(c.Pricing)
	c.MarketingFocus = scalar(c.MarketingFocus)
	c.CustomerFeedback = scalar(c.CustomerFeedback)
	c.KeyFeatures = list(c.KeyFeatures)
	c.TechStack = list(c.TechStack)
}

// DisplayName returns the company name, or a positional label when the
// name is the placeholder.
func (c Competitor) DisplayName(pos int) string {
	if c.CompanyName == "" || c.CompanyName == Placeholder {
		return "Competitor " + strconv.Itoa(pos)
	}
	return c.CompanyName
}

func scalar(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return Placeholder
	}
	return s
}

func list(items []string) []string {
	out := make([]string, 0, MaxListItems)
	for _, it := range items {
		it = strings.TrimSpace(norm.NFC.String(it))
		if it == "" {
			continue
		}
		out = append(out, it)
		if len(out) == MaxListItems {
			break
		}
	}
	if len(out) == 0 {
		return []string{Placeholder}
	}
	return out
}
