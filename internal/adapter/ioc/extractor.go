package ioc

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cyberrag/internal/domain"
)

// patterns holds the match rule for every indicator type except ports, which
// need a capture group and range check and are handled separately.
var patterns = map[domain.IndicatorType]*regexp.Regexp{
	domain.IndicatorCVE:    regexp.MustCompile(`(?i)\bCVE-\d{4}-\d{4,7}\b`),
	domain.IndicatorTID:    regexp.MustCompile(`(?i)\bT\d{4}(?:\.\d{1,3})?\b`),
	domain.IndicatorIPv4:   regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|1?[0-9]?[0-9])\.){3}(?:25[0-5]|2[0-4][0-9]|1?[0-9]?[0-9])\b`),
	domain.IndicatorIPv6:   regexp.MustCompile(`(?i)\b(?:[A-F0-9]{0,4}:){2,7}[A-F0-9]{0,4}\b`),
	domain.IndicatorHash:   regexp.MustCompile(`(?i)\b[a-f0-9]{32}\b|\b[a-f0-9]{40}\b|\b[a-f0-9]{64}\b`),
	domain.IndicatorEmail:  regexp.MustCompile(`(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`),
	domain.IndicatorURL:    regexp.MustCompile(`(?i)\bhttps?://[^\s<>\]]+\b`),
	domain.IndicatorDomain: regexp.MustCompile(`\b(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}\b`),
	domain.IndicatorPath:   regexp.MustCompile(`(?:[A-Za-z]:\\(?:[^\\\r\n]+\\)*[^\\\r\n]+)|(?:/(?:[^/\s]+/)*[^/\s]+)`),
}

var portPattern = regexp.MustCompile(`(?i)\bport\s?([0-9]{1,5})\b`)

// Extractor applies the typed indicator patterns to advisory text. The zero
// value is not usable; construct with NewExtractor.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract deobfuscates text and returns a complete IndicatorSet: every type
// has an entry, each list deduplicated and sorted. Matches that span the same
// substring under different types are reported under each matching type.
func (e *Extractor) Extract(text string) domain.IndicatorSet {
	t := Deobfuscate(text)
	set := make(domain.IndicatorSet, len(domain.IndicatorTypes))
	for _, typ := range domain.IndicatorTypes {
		if typ == domain.IndicatorPort {
			set[typ] = extractPorts(t)
			continue
		}
		set[typ] = normalize(typ, patterns[typ].FindAllString(t, -1))
	}
	return set
}

// normalize trims, canonicalizes case where the type is case-insensitive by
// definition, dedups, and sorts. CVE and technique IDs keep their original
// case; IP addresses do not.
func normalize(typ domain.IndicatorType, values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if typ == domain.IndicatorIPv4 || typ == domain.IndicatorIPv6 {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// extractPorts keeps only captured numbers in the valid 1..65535 range and
// re-renders them in canonical decimal form, so "port 0080" and "port 80"
// collapse to one value.
func extractPorts(text string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, m := range portPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > 65535 {
			continue
		}
		v := strconv.Itoa(n)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
