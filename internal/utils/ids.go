// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// ParseID parses a path segment as a record id. Only plain decimal digits
// are accepted: no sign, no whitespace, no base prefixes. Values that do
// not fit a uint are rejected.
//
//	id, ok := utils.ParseID("42") // 42, true
//	_, ok = utils.ParseID("-1")   // 0, false
//	_, ok = utils.ParseID("abc")  // 0, false
func ParseID(s string) (uint, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
