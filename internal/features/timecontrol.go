package features

import (
	"strconv"
	"strings"
)

// BaseMinutes is the base clock allotment parsed from a time-control code.
// Valid is false when the code was malformed.
type BaseMinutes struct {
	Value int
	Valid bool
}

// Malformed reports whether the source code could not be parsed.
func (b BaseMinutes) Malformed() bool { return !b.Valid }

func (b BaseMinutes) String() string {
	if !b.Valid {
		return "n/a"
	}
	return strconv.Itoa(b.Value)
}

// ParseTimeControl extracts the base minutes from a "<base>+<increment>" code.
// The increment is ignored. A missing separator or a non-integer base yields an
// invalid BaseMinutes; this function never fails.
func ParseTimeControl(code string) BaseMinutes {
	base, _, found := strings.Cut(code, "+")
	if !found {
		return BaseMinutes{}
	}
	n, err := strconv.Atoi(base)
	if err != nil {
		return BaseMinutes{}
	}
	return BaseMinutes{Value: n, Valid: true}
}
