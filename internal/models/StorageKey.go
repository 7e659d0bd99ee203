package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const keySeparator = "_"

// StorageKey identifies one day slot. Its encoded form "<ns>_<year>_<day>"
// is readable by the first browser release.
type StorageKey struct {
	Namespace string
	Year      int
	Day       int
}

func NewStorageKey(namespace string, year, day int) StorageKey {
	return StorageKey{Namespace: namespace, Year: year, Day: day}
}

func (k StorageKey) Encode() string {
	return YearPrefix(k.Namespace, k.Year) + strconv.Itoa(k.Day)
}

func (k StorageKey) String() string {
	return k.Encode()
}

// YearPrefix is the common prefix of every key of year in namespace.
func YearPrefix(namespace string, year int) string {
	return namespace + keySeparator + strconv.Itoa(year) + keySeparator
}

// DecodeStorageKey splits from the right so that namespaces containing the
// separator stay unambiguous.
func DecodeStorageKey(raw string) (StorageKey, error) {
	daySep := strings.LastIndex(raw, keySeparator)
	if daySep <= 0 {
		return StorageKey{}, fmt.Errorf("storage key %q: missing day", raw)
	}
	yearSep := strings.LastIndex(raw[:daySep], keySeparator)
	if yearSep <= 0 {
		return StorageKey{}, fmt.Errorf("storage key %q: missing year", raw)
	}

	year, err := parseKeyNumber(raw[yearSep+1 : daySep])
	if err != nil {
		return StorageKey{}, fmt.Errorf("storage key %q: year: %w", raw, err)
	}
	day, err := parseKeyNumber(raw[daySep+1:])
	if err != nil {
		return StorageKey{}, fmt.Errorf("storage key %q: day: %w", raw, err)
	}
	return StorageKey{Namespace: raw[:yearSep], Year: year, Day: day}, nil
}

func parseKeyNumber(s string) (int, error) {
	if !isCanonicalNumber(s) {
		return 0, fmt.Errorf("%q is not a positive integer", s)
	}
	return cast.ToIntE(s)
}

// isCanonicalNumber rejects signs, leading zeros and anything but ASCII digits.
func isCanonicalNumber(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
