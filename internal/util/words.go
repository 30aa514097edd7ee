package util

import "strings"

var (
	smallNumbers = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
	tens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

// NumberToWords spells n in english with words joined by underscores
// (21 -> twenty_one, -3 -> minus_three). Values past one million repeat
// "thousand" instead of naming larger scales.
func NumberToWords(n int) string {
	if n < 0 {
		// -(n+1) cannot overflow, even for math.MinInt
		return "minus_" + strings.Join(numberWords(uint64(-(n+1))+1), "_")
	}
	return strings.Join(numberWords(uint64(n)), "_")
}

func numberWords(n uint64) []string {
	switch {
	case n < 20:
		return []string{smallNumbers[n]}
	case n < 100:
		if n%10 == 0 {
			return []string{tens[n/10]}
		}
		return []string{tens[n/10], smallNumbers[n%10]}
	case n < 1000:
		out := []string{smallNumbers[n/100], "hundred"}
		if n%100 != 0 {
			out = append(out, numberWords(n%100)...)
		}
		return out
	default:
		out := append(numberWords(n/1000), "thousand")
		if n%1000 != 0 {
			out = append(out, numberWords(n%1000)...)
		}
		return out
	}
}
