package adcopy

import (
	"fmt"
	"strings"
)

// AdRequest holds the campaign parameters entered on the form.
type AdRequest struct {
	ProductName    string   `json:"productName"`
	Description    string   `json:"description"`
	TargetAudience string   `json:"targetAudience"`
	Platform       Platform `json:"platform"`
	Tone           Tone     `json:"tone"`
	Length         Length   `json:"length"`
}

// DefaultAdRequest returns the state of a freshly opened form.
func DefaultAdRequest() AdRequest {
	return AdRequest{
		Platform: DefaultPlatform,
		Tone:     DefaultTone,
		Length:   DefaultLength,
	}
}

// Validate checks the presence of the fields the generator cannot do without.
func (r AdRequest) Validate() error {
	if strings.TrimSpace(r.ProductName) == "" || strings.TrimSpace(r.Description) == "" {
		return &ValidationError{Message: MissingFieldsMessage}
	}
	return nil
}

// Field names one editable attribute of AdRequest.
type Field int

const (
	FieldProductName Field = iota
	FieldDescription
	FieldTargetAudience
	FieldPlatform
	FieldTone
	FieldLength
)

var fieldNames = [...]string{"productName", "description", "targetAudience", "platform", "tone", "length"}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField resolves the JSON name of a form field.
func ParseField(name string) (Field, error) {
	key := optionKey(name)
	for i, n := range fieldNames {
		if optionKey(n) == key {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Set assigns one field from its text form. Text fields accept anything;
// option fields reject unknown values and leave the request untouched.
func (r *AdRequest) Set(field Field, value string) error {
	switch field {
	case FieldProductName:
		r.ProductName = value
	case FieldDescription:
		r.Description = value
	case FieldTargetAudience:
		r.TargetAudience = value
	case FieldPlatform:
		p, err := ParsePlatform(value)
		if err != nil {
			return err
		}
		r.Platform = p
	case FieldTone:
		t, err := ParseTone(value)
		if err != nil {
			return err
		}
		r.Tone = t
	case FieldLength:
		l, err := ParseLength(value)
		if err != nil {
			return err
		}
		r.Length = l
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}
