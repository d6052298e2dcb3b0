package app

import (
	"strconv"
	"strings"

	"github.com/homestarrealty/buyerhunter/internal/leads"
)

// appendRunFooter appends a deterministic footer recording where the text
// came from and how it was processed, so a saved report can be reproduced.
func appendRunFooter(report string, source string, r leads.Result, cfg Config) string {
	var b strings.Builder
	b.WriteString(report)
	b.WriteString("\n---\n")
	b.WriteString("Run: source=")
	b.WriteString(strings.TrimSpace(source))
	b.WriteString("; phones=")
	b.WriteString(strconv.Itoa(len(r.Phones)))
	b.WriteString("; names=")
	b.WriteString(strconv.Itoa(len(r.Names)))
	b.WriteString("; stoplist=")
	b.WriteString(strconv.Itoa(len(Stoplist(cfg))))
	b.WriteString("; html=")
	b.WriteString(strconv.FormatBool(cfg.HTMLInput))
	b.WriteString("; normalized=")
	b.WriteString(strconv.FormatBool(cfg.Normalize))
	b.WriteString("; version=")
	b.WriteString(Version)
	b.WriteString("\n")
	return b.String()
}
