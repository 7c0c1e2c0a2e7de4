package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImporto(t *testing.T) {
	assert.Equal(t, 1234.56, ParseImporto("1234.56"))
	assert.Equal(t, 1234.56, ParseImporto("1234,56"))
	assert.Equal(t, 99.0, ParseImporto("  99  "))
	assert.Equal(t, 0.0, ParseImporto("-5"))
	assert.Equal(t, 0.0, ParseImporto("abc"))
	assert.Equal(t, 0.0, ParseImporto(""))
}

func TestSanificaImporto(t *testing.T) {
	assert.Equal(t, 10.5, SanificaImporto(10.5))
	assert.Equal(t, 0.0, SanificaImporto(-1))
	assert.Equal(t, 0.0, SanificaImporto(math.NaN()))
	assert.Equal(t, 0.0, SanificaImporto(math.Inf(1)))
	assert.Equal(t, 0.0, SanificaImporto(math.Inf(-1)))
}

func TestArrotonda2(t *testing.T) {
	assert.Equal(t, 1.23, Arrotonda2(1.234))
	assert.Equal(t, 1.24, Arrotonda2(1.235))
	assert.Equal(t, 100.0, Arrotonda2(99.999))
}

func TestFormatImporto(t *testing.T) {
	assert.Equal(t, "1234,56", FormatImporto(1234.56))
	assert.Equal(t, "0,00", FormatImporto(0))
	assert.Equal(t, "10,00", FormatImporto(10))
}
