package oracle

import (
	"regexp"
	"strconv"
)

// Budget rejection messages vary by provider path; both a direct
// "can only afford N tokens" phrasing and the context-limit arithmetic
// form "X + Y > Z" are recognized.
var (
	affordRe       = regexp.MustCompile(`(?i)afford(?:able)?\D{0,20}?(\d+)\s*tokens?`)
	contextLimitRe = regexp.MustCompile(`(\d+)\s*\+\s*(\d+)\s*>\s*(\d+)`)
)

// AffordableTokens extracts the maximum affordable token count from a
// provider error message. The second return is false when the message
// does not describe a token budget rejection.
func AffordableTokens(errMsg string) (int64, bool) {
	if m := affordRe.FindStringSubmatch(errMsg); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil && n > 0 {
			return n, true
		}
	}

	if m := contextLimitRe.FindStringSubmatch(errMsg); m != nil {
		input, err1 := strconv.ParseInt(m[1], 10, 64)
		limit, err2 := strconv.ParseInt(m[3], 10, 64)
		if err1 == nil && err2 == nil && limit > input {
			return limit - input, true
		}
	}

	return 0, false
}
