package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`\$(\d+(?:,\d{3})*(?:\.\d{1,2})?)`)

// ExtractPrice извлекает первую сумму в долларах из строки: "$1,299.00 CAD" -> 1299.
// Если сумма не найдена, возвращает 0.
func ExtractPrice(text string) float64 {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return parseAmount(m[1])
}

// parseAmount разбирает число с разделителями тысяч; при ошибке возвращает 0.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
