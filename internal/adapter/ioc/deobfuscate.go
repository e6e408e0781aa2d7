// Package ioc extracts indicators of compromise from advisory text.
//
// Published advisories routinely defang indicators so readers cannot click
// them. Extraction therefore runs in two fixed stages: restore defanged
// syntax, then match typed patterns against the restored text.
package ioc

import (
	"regexp"
	"strings"
)

var obfuscatedScheme = regexp.MustCompile(`(?i)hxxp(s?)://`)

var dotReplacer = strings.NewReplacer(
	"[.]", ".",
	"(.)", ".",
	"{.}", ".",
)

// Deobfuscate rewrites defanged indicator syntax back to its plain form.
// Scheme restoration runs before dot restoration so that a fully defanged
// URL such as hxxps://evil[.]example comes out whole.
func Deobfuscate(text string) string {
	return dotReplacer.Replace(obfuscatedScheme.ReplaceAllString(text, "http$1://"))
}
