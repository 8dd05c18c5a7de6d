package heading

import (
	"math"
	"strconv"
)

// cnDigits maps single Chinese digit characters to their values.
var cnDigits = map[rune]int{
	'零': 0, '〇': 0,
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

// cnUnits maps Chinese unit characters to their multipliers.
var cnUnits = map[rune]int{
	'十': 10,
	'百': 100,
}

// ParseNumeral converts a numeral string made of Chinese digits, 十/百 units
// and ASCII digits into an integer. Empty or unparseable input yields 0:
// headings routinely carry no usable number and that is not an error.
//
// Units multiply the pending digit (1 when none was given) and add the
// product to the running total. Bare digits that follow each other are read
// positionally, so "二零二三" is 2023 and "一百零五" is 105.
func ParseNumeral(s string) int {
	if s == "" {
		return 0
	}
	if isASCIIDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return n
	}

	total := 0
	pending := 0
	seenDigit := false
	for _, r := range s {
		if unit, ok := cnUnits[r]; ok {
			if !seenDigit {
				pending = 1
			}
			if pending > math.MaxInt/unit || total > math.MaxInt-pending*unit {
				return 0
			}
			total += pending * unit
			pending = 0
			seenDigit = false
			continue
		}
		d, ok := digitValue(r)
		if !ok {
			return 0
		}
		if pending > (math.MaxInt-d)/10 {
			return 0
		}
		pending = pending*10 + d
		seenDigit = true
	}
	if total > math.MaxInt-pending {
		return 0
	}
	return total + pending
}

func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	d, ok := cnDigits[r]
	return d, ok
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
