package progress

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidModuleKey is returned for keys outside year ≥ 1, index ≥ 0.
var ErrInvalidModuleKey = errors.New("invalid module key")

// ModuleKey identifies a module by year number and zero-based index.
// Its text form, "{year}-{index}", is the persisted map key.
type ModuleKey struct {
	Year  int
	Index int
}

// Key builds a ModuleKey.
func Key(year, index int) ModuleKey {
	return ModuleKey{Year: year, Index: index}
}

// Valid reports whether the key is structurally valid.
func (k ModuleKey) Valid() bool {
	return k.Year >= 1 && k.Index >= 0
}

func (k ModuleKey) String() string {
	return strconv.Itoa(k.Year) + "-" + strconv.Itoa(k.Index)
}

// MarshalText implements encoding.TextMarshaler.
func (k ModuleKey) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidModuleKey, k.Year, k.Index)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ModuleKey) UnmarshalText(b []byte) error {
	parsed, err := ParseModuleKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseModuleKey parses "{year}-{index}". Both parts must be plain decimal
// without sign or leading zeros.
func ParseModuleKey(s string) (ModuleKey, error) {
	yearStr, idxStr, ok := strings.Cut(s, "-")
	if !ok {
		return ModuleKey{}, fmt.Errorf("%w: %q", ErrInvalidModuleKey, s)
	}
	year, err := parseDecimal(yearStr)
	if err != nil {
		return ModuleKey{}, fmt.Errorf("%w: %q", ErrInvalidModuleKey, s)
	}
	idx, err := parseDecimal(idxStr)
	if err != nil {
		return ModuleKey{}, fmt.Errorf("%w: %q", ErrInvalidModuleKey, s)
	}
	k := ModuleKey{Year: year, Index: idx}
	if !k.Valid() {
		return ModuleKey{}, fmt.Errorf("%w: %q", ErrInvalidModuleKey, s)
	}
	return k, nil
}

func parseDecimal(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errors.New("not decimal")
		}
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, errors.New("leading zero")
	}
	return strconv.Atoi(s)
}
