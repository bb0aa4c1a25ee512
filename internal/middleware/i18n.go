package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N stores the request locale (a BCP 47 tag such as "id" or "pt-BR") and,
// when known, the client country in the request context.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := detectLocale(r, defaultLocale, country)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, country)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, country string) string {
	if tag, ok := parseLocale(r.Header.Get("X-Locale")); ok {
		return tag.String()
	}
	if tag, ok := preferredLanguage(r.Header.Get("Accept-Language")); ok {
		return tag.String()
	}
	if tag, ok := countryLanguage(country); ok {
		return tag.String()
	}
	if tag, ok := parseLocale(fallback); ok {
		return tag.String()
	}
	return "en"
}

func parseLocale(v string) (language.Tag, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return language.Und, false
	}
	tag, err := language.Parse(v)
	if err != nil || tag == language.Und {
		return language.Und, false
	}
	return tag, true
}

// preferredLanguage returns the highest-weighted concrete tag of an
// Accept-Language header. Wildcards are skipped.
func preferredLanguage(header string) (language.Tag, bool) {
	if strings.TrimSpace(header) == "" {
		return language.Und, false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return language.Und, false
	}
	for _, tag := range tags {
		if tag != language.Und {
			return tag, true
		}
	}
	return language.Und, false
}

// countryLanguage maps a country to its most likely language, e.g. "ID" to
// "id" and "BR" to "pt".
func countryLanguage(country string) (language.Tag, bool) {
	if country == "" {
		return language.Und, false
	}
	region, err := language.ParseRegion(country)
	if err != nil {
		return language.Und, false
	}
	tag, err := language.Compose(region)
	if err != nil {
		return language.Und, false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return language.Und, false
	}
	tag, err = language.Compose(base)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the locale stored by I18N, or "" when the
// middleware did not run.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return ""
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO country code for the given request.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if tag, ok := parseLocale(r.Header.Get("X-Locale")); ok {
		if region := explicitRegion(tag); region != "" {
			return region
		}
	}
	if tag, ok := preferredLanguage(r.Header.Get("Accept-Language")); ok {
		if region := explicitRegion(tag); region != "" {
			return region
		}
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

// explicitRegion returns the region only when the tag names one, so "en"
// does not guess "US".
func explicitRegion(tag language.Tag) string {
	region, conf := tag.Region()
	if conf != language.Exact {
		return ""
	}
	return region.String()
}
