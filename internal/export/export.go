// Package export renders extraction results for people: a console summary,
// a CSV of phone numbers, JSON, and a printable PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/homestarrealty/buyerhunter/internal/leads"
)

// PhoneHeader is the only column of the CSV export.
const PhoneHeader = "Phone Number"

// CSVFileName is the suggested download name for the CSV export.
const CSVFileName = "buyer_contacts.csv"

// Messages shown when a pass comes back empty or non-empty.
const (
	MsgNoPhones   = "No phone numbers found!"
	MsgNoNames    = "No clear buyer names detected."
	MsgNamesFound = "Possible Buyer Names found:"
)

// FoundPhones formats the phone count line.
func FoundPhones(n int) string {
	return fmt.Sprintf("Found %d phone number(s).", n)
}

// JoinNames renders name candidates as one human readable line.
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}

// WriteCSV writes one row per phone number under the PhoneHeader column.
// Duplicates are written as found.
func WriteCSV(w io.Writer, phones []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{PhoneHeader}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range phones {
		if err := cw.Write([]string{p}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, r leads.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Summary renders the result the way the console and the web page show it.
func Summary(r leads.Result) string {
	var b strings.Builder
	if !r.HasPhones() {
		b.WriteString(MsgNoPhones)
		b.WriteString("\n")
	} else {
		b.WriteString(FoundPhones(len(r.Phones)))
		b.WriteString("\n")
		for _, p := range r.Phones {
			b.WriteString("  ")
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	if r.HasNames() {
		b.WriteString(MsgNamesFound)
		b.WriteString("\n")
		b.WriteString(JoinNames(r.Names))
		b.WriteString("\n")
	} else {
		b.WriteString(MsgNoNames)
		b.WriteString("\n")
	}
	return b.String()
}
