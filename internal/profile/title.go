package profile

import (
	"strings"
	"unicode"
)

// titleTrim is cut from both ends of a unique title.
const titleTrim = " \t|-–—:·•,"

// UniqueTitle returns title without its longest common substring with
// parentTitle. Sites usually suffix every page title with the same site
// name, so what remains identifies the page itself.
func UniqueTitle(title, parentTitle string) string {
	if parentTitle == "" || title == "" {
		return strings.TrimSpace(title)
	}
	a, b := []rune(title), []rune(parentTitle)
	start, size := longestCommonSubstring(a, b)
	// Keep whole words: "Doe | Physics" and "People | Physics" share
	// "e | Physics", but only " | Physics" is the common suffix.
	for size > 0 && start > 0 && isWordRune(a[start-1]) && isWordRune(a[start]) {
		start++
		size--
	}
	for size > 0 && start+size < len(a) && isWordRune(a[start+size]) && isWordRune(a[start+size-1]) {
		size--
	}
	if size < 2 {
		return strings.TrimSpace(title)
	}
	rest := string(a[:start]) + " " + string(a[start+size:])
	return strings.Trim(strings.Join(strings.Fields(rest), " "), titleTrim)
}

// longestCommonSubstring returns the start in a and the length of the
// longest run shared by a and b.
func longestCommonSubstring(a, b []rune) (int, int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	bestStart, bestSize := 0, 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > bestSize {
					bestSize = cur[j]
					bestStart = i - cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return bestStart, bestSize
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
