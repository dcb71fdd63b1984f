// Package evaluate decides whether a learner's answer matches the canonical
// solution of an exercise item.
package evaluate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeSpace trims s and collapses every internal run of whitespace to a
// single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CompareExact reports whether the answer equals the solution byte for byte.
// Used for multiple-choice answers whose value is one of the fixed options.
func CompareExact(answer, solution string) bool {
	return answer == solution
}

// CompareOrder joins the selected words with spaces and compares the result
// with the solution after whitespace normalization. Click order is the answer
// and punctuation is compared as-is.
func CompareOrder(words []string, solution string) bool {
	return NormalizeSpace(strings.Join(words, " ")) == NormalizeSpace(solution)
}

// CompareDaWo compares a reformulated wo-compound question with its solution.
// Only the case of the first character is forgiven.
func CompareDaWo(answer, solution string) bool {
	a := NormalizeSpace(answer)
	s := NormalizeSpace(solution)
	if a == s {
		return true
	}

	ar, an := utf8.DecodeRuneInString(a)
	sr, sn := utf8.DecodeRuneInString(s)
	if an == 0 || sn == 0 {
		return false
	}
	if a[an:] != s[sn:] {
		return false
	}
	return unicode.ToLower(ar) == unicode.ToLower(sr)
}
