package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseImporto converte un importo testuale in float64.
// Accetta sia la virgola che il punto come separatore decimale;
// valori negativi o non numerici vengono sanificati a 0.
func ParseImporto(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// SanificaImporto azzera i valori negativi o non finiti.
func SanificaImporto(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Arrotonda2 arrotonda al centesimo.
func Arrotonda2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatImporto formatta un importo con due decimali e la virgola
// come separatore decimale, secondo la convenzione italiana.
func FormatImporto(v float64) string {
	s := strconv.FormatFloat(Arrotonda2(v), 'f', 2, 64)
	return strings.Replace(s, ".", ",", 1)
}
