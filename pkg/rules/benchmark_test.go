package rules

import (
	"strings"
	"testing"
)

func BenchmarkAnalyzeText_Short(b *testing.B) {
	text := "Immediate hire. Please pay a registration fee of $25. Contact on WhatsApp only."
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		AnalyzeText(text)
	}
}

func BenchmarkAnalyzeText_Long(b *testing.B) {
	text := strings.Repeat("We are a growing company looking for engineers. ", 200)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		AnalyzeText(text)
	}
}
