package extract

import "golang.org/x/text/unicode/norm"

// Normalize applies NFKC compatibility folding. Full-width digits and Latin
// letters, common in text copied from mobile keyboards, become plain ASCII so
// that the phone and name patterns can see them.
func Normalize(s string) string {
	if norm.NFKC.IsNormalString(s) {
		return s
	}
	return norm.NFKC.String(s)
}
