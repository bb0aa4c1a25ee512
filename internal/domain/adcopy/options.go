package adcopy

import (
	"fmt"
	"strings"
	"unicode"
)

// Platform is the advertising channel the copy is written for.
type Platform int

const (
	PlatformFacebook Platform = iota
	PlatformInstagram
	PlatformGoogleAds
	PlatformYouTube
	PlatformTikTok
	PlatformWebsiteBanner
	PlatformLinkedIn
	PlatformTwitter
)

// Tone is the voice the copy should be written in.
type Tone int

const (
	ToneProfessional Tone = iota
	ToneEmotional
	ToneFriendly
	ToneLuxury
	ToneFunny
	ToneUrgent
	TonePersuasive
)

// Length controls how long the generated body should be.
type Length int

const (
	LengthShort Length = iota
	LengthMedium
	LengthLong
)

const (
	// DefaultPlatform is preselected on a fresh form.
	DefaultPlatform = PlatformFacebook
	// DefaultTone is preselected on a fresh form.
	DefaultTone = ToneProfessional
	// DefaultLength is preselected on a fresh form.
	DefaultLength = LengthMedium
)

var platformOptions = optionSet[Platform]{
	kind:   "platform",
	labels: []string{"Facebook", "Instagram", "Google Ads", "YouTube", "TikTok", "Website Banner", "LinkedIn", "Twitter (X)"},
	idents: []string{"Facebook", "Instagram", "GoogleAds", "YouTube", "TikTok", "WebsiteBanner", "LinkedIn", "Twitter"},
	aliases: map[string]Platform{
		"x":      PlatformTwitter,
		"google": PlatformGoogleAds,
		"banner": PlatformWebsiteBanner,
	},
}

var toneOptions = optionSet[Tone]{
	kind:   "tone",
	labels: []string{"Professional", "Emotional", "Friendly", "Luxury", "Funny", "Urgent", "Persuasive"},
	idents: []string{"Professional", "Emotional", "Friendly", "Luxury", "Funny", "Urgent", "Persuasive"},
}

var lengthOptions = optionSet[Length]{
	kind:   "length",
	labels: []string{"Short (Punchy)", "Medium (Balanced)", "Long (Detailed)"},
	idents: []string{"Short", "Medium", "Long"},
}

func (p Platform) String() string { return platformOptions.label(p) }
func (t Tone) String() string     { return toneOptions.label(t) }
func (l Length) String() string   { return lengthOptions.label(l) }

// Ident returns the compact identifier form, e.g. "GoogleAds".
func (p Platform) Ident() string { return platformOptions.ident(p) }
func (t Tone) Ident() string     { return toneOptions.ident(t) }
func (l Length) Ident() string   { return lengthOptions.ident(l) }

func (p Platform) Valid() bool { return platformOptions.valid(p) }
func (t Tone) Valid() bool     { return toneOptions.valid(t) }
func (l Length) Valid() bool   { return lengthOptions.valid(l) }

// ParsePlatform accepts the display label ("Google Ads"), the identifier
// ("GoogleAds") or a loose spelling ("google_ads"), case-insensitively.
func ParsePlatform(s string) (Platform, error) { return platformOptions.parse(s) }

// ParseTone parses a tone the same way ParsePlatform does.
func ParseTone(s string) (Tone, error) { return toneOptions.parse(s) }

// ParseLength parses a length; "short" and "Short (Punchy)" are equivalent.
func ParseLength(s string) (Length, error) { return lengthOptions.parse(s) }

// Platforms lists every platform in form order.
func Platforms() []Platform { return platformOptions.all() }

// Tones lists every tone in form order.
func Tones() []Tone { return toneOptions.all() }

// Lengths lists every length in form order.
func Lengths() []Length { return lengthOptions.all() }

func (p Platform) MarshalText() ([]byte, error) { return platformOptions.marshal(p) }
func (t Tone) MarshalText() ([]byte, error)     { return toneOptions.marshal(t) }
func (l Length) MarshalText() ([]byte, error)   { return lengthOptions.marshal(l) }

func (p *Platform) UnmarshalText(b []byte) error {
	v, err := ParsePlatform(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (t *Tone) UnmarshalText(b []byte) error {
	v, err := ParseTone(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (l *Length) UnmarshalText(b []byte) error {
	v, err := ParseLength(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

type optionSet[T ~int] struct {
	kind    string
	labels  []string
	idents  []string
	aliases map[string]T
}

func (o optionSet[T]) valid(v T) bool {
	return int(v) >= 0 && int(v) < len(o.labels)
}

func (o optionSet[T]) label(v T) string {
	if !o.valid(v) {
		return fmt.Sprintf("%s(%d)", o.kind, int(v))
	}
	return o.labels[v]
}

func (o optionSet[T]) ident(v T) string {
	if !o.valid(v) {
		return fmt.Sprintf("%s(%d)", o.kind, int(v))
	}
	return o.idents[v]
}

func (o optionSet[T]) all() []T {
	out := make([]T, len(o.labels))
	for i := range o.labels {
		out[i] = T(i)
	}
	return out
}

func (o optionSet[T]) marshal(v T) ([]byte, error) {
	if !o.valid(v) {
		return nil, fmt.Errorf("%w: %s %d", ErrUnknownOption, o.kind, int(v))
	}
	return []byte(o.labels[v]), nil
}

func (o optionSet[T]) parse(s string) (T, error) {
	key := optionKey(s)
	if key != "" {
		for i := range o.labels {
			if optionKey(o.labels[i]) == key || optionKey(o.idents[i]) == key {
				return T(i), nil
			}
		}
		if v, ok := o.aliases[key]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownOption, o.kind, s)
}

// optionKey folds case and drops everything but letters and digits, so
// "Twitter (X)", "twitter_x" and "TwitterX" compare equal.
func optionKey(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}
