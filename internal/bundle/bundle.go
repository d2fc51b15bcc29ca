// Package bundle reads the build metadata a Flutter iOS build embeds, such
// as the DART_DEFINES entry of Info.plist or Generated.xcconfig.
package bundle

import (
	"fmt"
	"os"

	"howett.net/plist"
)

// DefinesField is the metadata key holding the encoded dart-define blob.
const DefinesField = "DART_DEFINES"

// Info is a flat view of bundle metadata.
type Info map[string]any

// String returns the string stored under field. It reports false when the
// field is absent and an error when it is present with a non-string value.
func (i Info) String(field string) (string, bool, error) {
	raw, ok := i[field]
	if !ok {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%s: expected string, got %T", field, raw)
	}
	return s, true, nil
}

// Defines returns the DART_DEFINES blob, or "" when it is absent.
func (i Info) Defines() (string, error) {
	s, _, err := i.String(DefinesField)
	return s, err
}

// ReadInfoPlist reads an XML, binary or OpenStep property list whose root is
// a dictionary.
func ReadInfoPlist(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading info plist: %w", err)
	}
	return ParseInfoPlist(data)
}

// ParseInfoPlist decodes property list bytes.
func ParseInfoPlist(data []byte) (Info, error) {
	var info map[string]any
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing info plist: %w", err)
	}
	if info == nil {
		info = map[string]any{}
	}
	return Info(info), nil
}
