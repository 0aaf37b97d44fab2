package currency

import "strconv"

// FormatBRL converts integer cents to a localized Brazilian real string,
// e.g. 123456 -> "R$ 1.234,56". Only integer arithmetic is used.
func FormatBRL(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := cents / 100
	fraction := cents % 100

	digits := strconv.FormatInt(whole, 10)

	grouped := make([]byte, 0, len(digits)+len(digits)/3)
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	out := "R$ " + string(grouped) + ","
	if fraction < 10 {
		out += "0"
	}
	out += strconv.FormatInt(fraction, 10)

	if negative {
		out = "-" + out
	}

	return out
}
