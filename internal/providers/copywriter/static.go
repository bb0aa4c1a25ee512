package copywriter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"adcraft/internal/domain/adcopy"
)

const staticProviderName = "static"

// StaticBackend produces deterministic copy without calling any service.
// It exists for local development and demos without credentials.
type StaticBackend struct{}

func NewStaticBackend() *StaticBackend {
	return &StaticBackend{}
}

func (s *StaticBackend) Name() string { return staticProviderName }

var staticCallToAction = map[adcopy.Platform]string{
	adcopy.PlatformFacebook:      "Learn More",
	adcopy.PlatformInstagram:     "Shop Now",
	adcopy.PlatformGoogleAds:     "Get Started Today",
	adcopy.PlatformYouTube:       "Watch Now",
	adcopy.PlatformTikTok:        "Try It Now",
	adcopy.PlatformWebsiteBanner: "Discover More",
	adcopy.PlatformLinkedIn:      "Request a Demo",
	adcopy.PlatformTwitter:       "Join In",
}

var staticOpeners = map[adcopy.Tone]string{
	adcopy.ToneProfessional: "Built for results.",
	adcopy.ToneEmotional:    "Some things just feel right.",
	adcopy.ToneFriendly:     "Hey there, meet your new favorite.",
	adcopy.ToneLuxury:       "Indulge in something exceptional.",
	adcopy.ToneFunny:        "Warning: may cause excessive happiness.",
	adcopy.ToneUrgent:       "Don't wait, this won't last.",
	adcopy.TonePersuasive:   "Here's why you'll want this.",
}

func (s *StaticBackend) Complete(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ad := p.Source.Ad
	title := cases.Title(language.Und).String(strings.TrimSpace(ad.ProductName))
	body := fmt.Sprintf("%s %s", staticOpeners[ad.Tone], strings.TrimSpace(ad.Description))
	if ad.Length == adcopy.LengthLong {
		body += fmt.Sprintf("\n\n%s is made for people who expect more.", title)
	}
	audience := strings.TrimSpace(ad.TargetAudience)
	if audience == "" {
		audience = "a broad audience"
	}
	payload := adcopy.AdResponse{
		Headline:     fmt.Sprintf("Discover %s", title),
		Body:         body,
		CallToAction: staticCallToAction[ad.Platform],
		Hashtags:     staticHashtags(ad),
		Explanation:  fmt.Sprintf("A %s hook with a direct call to action suits %s readers on %s.", strings.ToLower(ad.Tone.Ident()), audience, ad.Platform),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func staticHashtags(ad adcopy.AdRequest) []string {
	if ad.Platform == adcopy.PlatformWebsiteBanner || ad.Platform == adcopy.PlatformGoogleAds {
		return []string{}
	}
	tag := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, ad.ProductName)
	tags := []string{}
	if tag != "" {
		tags = append(tags, tag)
	}
	return append(tags, strings.ToLower(ad.Tone.Ident()))
}

var _ Backend = (*StaticBackend)(nil)
