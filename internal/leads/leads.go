// Package leads pulls buyer contact candidates out of pasted free text: Indian
// mobile numbers and capitalized tokens that may be names.
package leads

// Result holds the output of both extraction passes over one input.
type Result struct {
	Phones []string `json:"phones"`
	Names  []string `json:"names"`
}

// HasPhones reports whether any phone number was found.
func (r Result) HasPhones() bool { return len(r.Phones) > 0 }

// HasNames reports whether any name candidate was found.
func (r Result) HasNames() bool { return len(r.Names) > 0 }

// Empty reports whether neither pass matched anything.
func (r Result) Empty() bool { return !r.HasPhones() && !r.HasNames() }

// Extractor runs both passes over a text.
// Implementations must be safe for concurrent use.
type Extractor interface {
	Extract(text string) Result
}

// Default pairs the phone pass with a NameExtractor.
type Default struct {
	Names *NameExtractor
}

// New returns a Default extractor using stop as the name stoplist (nil for
// the built-in list).
func New(stop Stoplist) Default {
	return Default{Names: NewNameExtractor(stop)}
}

func (d Default) Extract(text string) Result {
	names := d.Names
	if names == nil {
		names = defaultNames
	}
	return Result{
		Phones: ExtractPhoneNumbers(text),
		Names:  names.Extract(text),
	}
}
