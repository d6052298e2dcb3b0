package leads

import (
	"strings"
	"testing"
)

func BenchmarkExtract(b *testing.B) {
	line := "Looking for 2 BHK Flat, contact Rahul Sharma +91 9876543210 or Priya 8123456789 in Mumbai. "
	small := line
	large := strings.Repeat(line, 500)
	ex := New(nil)

	b.Run("small", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = ex.Extract(small)
		}
	})
	b.Run("large", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = ex.Extract(large)
		}
	})
}
