package adcopy

import "strings"

// AdResponse is the structured copy returned by the model.
type AdResponse struct {
	Headline     string   `json:"headline"`
	Body         string   `json:"body"`
	CallToAction string   `json:"callToAction"`
	Hashtags     []string `json:"hashtags"`
	Explanation  string   `json:"explanation"`
}

// DisplayHashtags renders the hashtags the way the preview shows them:
// every tag gets a leading '#' and tags are separated by a space.
func (r AdResponse) DisplayHashtags() string {
	tags := make([]string, 0, len(r.Hashtags))
	for _, tag := range r.Hashtags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		tags = append(tags, tag)
	}
	return strings.Join(tags, " ")
}

// PlainText joins the publishable parts of the copy with blank lines.
func (r AdResponse) PlainText() string {
	parts := []string{r.Headline, r.Body, r.CallToAction}
	if tags := r.DisplayHashtags(); tags != "" {
		parts = append(parts, tags)
	}
	return strings.Join(parts, "\n\n")
}
