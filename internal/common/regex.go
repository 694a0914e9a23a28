package common

import (
	"regexp"
	"strings"
)

// MatchRegex compiles and matches a regex pattern against a string.
// Returns an error if the pattern is invalid.
func MatchRegex(pattern, text string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}

// MatchMerchantPattern matches a category rule's merchant pattern
// against a merchant name: regex when isRegex is set, otherwise exact
// case-insensitive comparison.
func MatchMerchantPattern(pattern, merchant string, isRegex bool) (bool, error) {
	if isRegex {
		return MatchRegex("(?i)"+pattern, merchant)
	}
	return strings.EqualFold(pattern, merchant), nil
}
