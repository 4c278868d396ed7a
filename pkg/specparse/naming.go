package specparse

import (
	"strings"
	"unicode"
)

// FileName converts "RegBank" to "reg-bank", "DmaEngine" to "dma-engine".
func FileName(name string) string {
	var result strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('-')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

// ConstName converts a field path to a macro-style name: "dma.src" to
// "DMA_SRC", "bank[1]" to "BANK_1".
func ConstName(path string) string {
	return strings.ToUpper(strings.Join(words(path), "_"))
}

// GoName converts a field path to an exported Go identifier: "dma.src" to
// "DmaSrc", "ctrl_reg" to "CtrlReg", "bank[1]" to "Bank1".
func GoName(path string) string {
	var b strings.Builder
	for _, w := range words(path) {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
