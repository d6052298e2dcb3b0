package leads

import (
	"reflect"
	"testing"
)

func TestExtractPhoneNumbers_Empty(t *testing.T) {
	got := ExtractPhoneNumbers("")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestExtractPhoneNumbers_Cases(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "Call 9876543210 now", []string{"9876543210"}},
		{"prefix with space keeps prefix", "+91 9876543210", []string{"+91 9876543210"}},
		{"prefix with hyphen", "ph: +91-7012345678.", []string{"+91-7012345678"}},
		{"prefix glued", "+918123456789", []string{"+918123456789"}},
		{"two separators drop prefix", "+91  9876543210", []string{"9876543210"}},
		{"leading digit 5 rejected", "5876543210", []string{}},
		{"leading digit 0 rejected", "call 0876543210", []string{}},
		{"too short", "987654321", []string{}},
		{"duplicates kept", "9876543210 9876543210", []string{"9876543210", "9876543210"}},
		{"order of appearance", "a 7000000001 b 6000000002 c 9000000003", []string{"7000000001", "6000000002", "9000000003"}},
		{"longer run takes first window", "987654321012", []string{"9876543210"}},
		{"bad prefix digit", "+91 5876543210", []string{}},
		{"prefix with no-break space", "+91\u00a09876543210", []string{"+91\u00a09876543210"}},
		{"prefix with narrow no-break space", "+91\u202f9876543210", []string{"+91\u202f9876543210"}},
		{"prefix with ideographic space", "+91\u30009876543210", []string{"+91\u30009876543210"}},
		{"prefix with vertical tab", "+91\v9876543210", []string{"+91\v9876543210"}},
		{"prefix with line separator", "+91\u20289876543210", []string{"+91\u20289876543210"}},
		{"non-ascii digits ignored", "+91 ९८७६५४३२१०", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractPhoneNumbers(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractPhoneNumbers(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractPhoneNumbers_ChatLog(t *testing.T) {
	chat := "[10:02] Ramesh: need 2BHK in Andheri, call me on 98200 11223 or 9820011223\n" +
		"[10:05] Priya: +91 8899776655 interested in plot\n"
	got := ExtractPhoneNumbers(chat)
	want := []string{"9820011223", "+91 8899776655"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}
