package copywriter

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Schema is a provider-neutral description of the JSON the model must return.
// Backends translate it to their own structured-output format.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	// Order is the property order the reply should follow.
	Order []string `json:"-"`
}

const (
	TypeObject = "object"
	TypeString = "string"
	TypeArray  = "array"
)

const (
	fieldHeadline     = "headline"
	fieldBody         = "body"
	fieldCallToAction = "callToAction"
	fieldHashtags     = "hashtags"
	fieldExplanation  = "explanation"
)

var responseFields = []string{fieldHeadline, fieldBody, fieldCallToAction, fieldHashtags, fieldExplanation}

// ResponseSchema describes AdResponse. Every property is required.
func ResponseSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			fieldHeadline: {
				Type:        TypeString,
				Description: "The main hook or title of the ad.",
			},
			fieldBody: {
				Type:        TypeString,
				Description: "The main content text of the advertisement.",
			},
			fieldCallToAction: {
				Type:        TypeString,
				Description: "A short, punchy phrase telling the reader what to do next.",
			},
			fieldHashtags: {
				Type:        TypeArray,
				Items:       &Schema{Type: TypeString},
				Description: "Relevant hashtags for the platform, if the platform uses them.",
			},
			fieldExplanation: {
				Type:        TypeString,
				Description: "A brief explanation of why this copy works for this audience and platform.",
			},
		},
		Required: append([]string(nil), responseFields...),
		Order:    append([]string(nil), responseFields...),
	}
}

// BuildPrompt renders the instruction sent to the model. All six form fields
// are embedded verbatim, options in their display form.
func BuildPrompt(req Request) string {
	ad := req.Ad
	sb := &strings.Builder{}
	sb.WriteString("You are an expert marketing copywriter. Create a high-converting advertisement based on the following details:\n\n")
	fmt.Fprintf(sb, "Product/Service Name: %s\n", ad.ProductName)
	fmt.Fprintf(sb, "Product Description: %s\n", ad.Description)
	fmt.Fprintf(sb, "Target Audience: %s\n", ad.TargetAudience)
	fmt.Fprintf(sb, "Platform: %s\n", ad.Platform)
	fmt.Fprintf(sb, "Tone: %s\n", ad.Tone)
	fmt.Fprintf(sb, "Length: %s\n\n", ad.Length)
	fmt.Fprintf(sb, "The copy must be original, engaging, and tailored specifically to the %s format and the selected tone.\n", ad.Platform)
	sb.WriteString("Ensure there is a strong hook/headline and a clear Call to Action (CTA).")
	if name := languageName(req.Locale); name != "" {
		fmt.Fprintf(sb, "\nWrite the headline, body, call to action and hashtags in %s.", name)
	}
	return sb.String()
}

// languageName returns the English name of a locale such as "id" or
// "pt-BR", or "" when the locale cannot be parsed.
func languageName(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}
