package leads

import "regexp"

// phonePattern matches Indian mobile numbers: ten digits starting with 6-9,
// optionally preceded by +91 and at most one hyphen or whitespace character.
// The separator class is Unicode whitespace (NBSP, narrow NBSP, ideographic
// space and friends), not RE2's ASCII-only \s. Digits stay ASCII.
var phonePattern = regexp.MustCompile(`(?:\+91[\-\t\n\v\f\r\x1c-\x1f\x{85}\p{Z}]?)?[6-9]\d{9}`)

// ExtractPhoneNumbers returns every non-overlapping phone match in text, in
// order of appearance. Duplicates are kept. When the +91 prefix is present it
// is part of the returned match.
func ExtractPhoneNumbers(text string) []string {
	found := phonePattern.FindAllString(text, -1)
	if found == nil {
		return []string{}
	}
	return found
}
