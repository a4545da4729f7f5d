package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Limits holds the catalog tunables, resolved once at startup from config.
type Limits struct {
	MaxTags           int
	MaxTagLength      int
	MaxTitleLength    int
	MaxPlatformLength int
}

// DefaultLimits returns the limits used when config supplies nothing.
func DefaultLimits() Limits {
	return Limits{
		MaxTags:           10,
		MaxTagLength:      30,
		MaxTitleLength:    200,
		MaxPlatformLength: 50,
	}
}

// Allowed platforms per media type. An empty platform is always accepted
// (the field is optional); anything else must be in the set for the type.
var platformsByType = map[MediaType]map[string]struct{}{
	MediaTypeGame: toSet(
		"PC",
		"PlayStation",
		"PlayStation 4",
		"PlayStation 5",
		"Xbox",
		"Xbox One",
		"Xbox Series X/S",
		"Nintendo Switch",
		"Nintendo 3DS",
		"Steam",
		"Epic Games",
		"GOG",
	),
	MediaTypeMovie: toSet(
		"Netflix",
		"Amazon Prime",
		"Disney+",
		"Apple TV+",
		"HBO Max",
		"Hulu",
		"Crunchyroll",
		"Ororo.tv",
		"Cinema",
		"Blu-ray",
		"DVD",
	),
}

// moviePlatformAliases normalizes common user spellings for movie platforms.
var moviePlatformAliases = map[string]string{
	"amazon":       "Amazon Prime",
	"amazon prime": "Amazon Prime",
	"netflix":      "Netflix",
	"apple tv":     "Apple TV+",
	"apple tv+":    "Apple TV+",
	"disney":       "Disney+",
	"disney+":      "Disney+",
	"hbo":          "HBO Max",
	"hbo max":      "HBO Max",
	"crunchyroll":  "Crunchyroll",
	"ororo.tv":     "Ororo.tv",
	"ororo":        "Ororo.tv",
	"cinema":       "Cinema",
	"blu-ray":      "Blu-ray",
	"bluray":       "Blu-ray",
	"dvd":          "DVD",
	"hulu":         "Hulu",
}

// coverURLPattern accepts http(s) URLs with a domain, localhost or IPv4
// host, an optional port and an optional path.
var coverURLPattern = regexp.MustCompile(
	`(?i)^https?://` +
		`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,6}\.?|localhost|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+)$`)

// Validator normalizes and validates item fields before they reach the
// store. Every rejection is a ValidationError naming the offending field.
type Validator struct {
	limits Limits
}

func NewValidator(limits Limits) *Validator {
	def := DefaultLimits()
	if limits.MaxTags <= 0 {
		limits.MaxTags = def.MaxTags
	}
	if limits.MaxTagLength <= 0 {
		limits.MaxTagLength = def.MaxTagLength
	}
	if limits.MaxTitleLength <= 0 {
		limits.MaxTitleLength = def.MaxTitleLength
	}
	if limits.MaxPlatformLength <= 0 {
		limits.MaxPlatformLength = def.MaxPlatformLength
	}
	return &Validator{limits: limits}
}

// Title trims and validates an item title.
func (v *Validator) Title(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", &ValidationError{Field: "title", Reason: "cannot be empty"}
	}
	// Limits count characters, not bytes, so multibyte titles are not
	// penalized.
	if utf8.RuneCountInString(title) > v.limits.MaxTitleLength {
		return "", &ValidationError{
			Field:  "title",
			Reason: fmt.Sprintf("too long (max %d characters)", v.limits.MaxTitleLength),
		}
	}
	return title, nil
}

// Platform trims, normalizes and validates a platform for the given media
// type. An empty value means "no platform" and is returned as "".
func (v *Validator) Platform(raw string, mt MediaType) (string, error) {
	platform := strings.TrimSpace(raw)
	if platform == "" {
		return "", nil
	}
	if utf8.RuneCountInString(platform) > v.limits.MaxPlatformLength {
		return "", &ValidationError{
			Field:  "platform",
			Reason: fmt.Sprintf("too long (max %d characters)", v.limits.MaxPlatformLength),
		}
	}

	if mt == MediaTypeMovie {
		if canonical, ok := moviePlatformAliases[strings.ToLower(platform)]; ok {
			platform = canonical
		}
	}

	allowed := platformsByType[mt]
	if len(allowed) == 0 {
		return platform, nil
	}
	if _, ok := allowed[platform]; !ok {
		return "", &ValidationError{
			Field:  "platform",
			Reason: fmt.Sprintf("%q is not valid for type %q (valid: %s)", platform, mt, joinSet(allowed)),
		}
	}
	return platform, nil
}

// CoverURL trims and validates a cover image URL. Empty means "no cover".
func (v *Validator) CoverURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", nil
	}
	if !coverURLPattern.MatchString(u) {
		return "", &ValidationError{Field: "coverUrl", Reason: "must be a well-formed http(s) URL"}
	}
	return u, nil
}

// Tags cleans a tag list: trim, lowercase, drop empties and over-long
// entries, dedupe case-insensitively keeping first occurrence, cap the
// count. Cleaning never fails; bad entries are silently dropped.
func (v *Validator) Tags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag == "" || utf8.RuneCountInString(tag) > v.limits.MaxTagLength {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == v.limits.MaxTags {
			break
		}
	}
	return tags
}

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func joinSet(set map[string]struct{}) string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
