package bundle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadXCConfig reads an Xcode build settings file such as the
// ios/Flutter/Generated.xcconfig written by `flutter build`.
func ReadXCConfig(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading xcconfig: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := ParseXCConfig(f)
	if err != nil {
		return nil, fmt.Errorf("parsing xcconfig %s: %w", path, err)
	}
	return info, nil
}

// ParseXCConfig parses NAME = VALUE settings. Comments, blank lines and
// #include directives are ignored. Later assignments override earlier ones.
// Conditional settings such as NAME[sdk=iphoneos*] are stored under their
// full bracketed name.
func ParseXCConfig(r io.Reader) (Info, error) {
	info := Info{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := stripComment(sc.Text())
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#include") {
			continue
		}

		name, value, ok := cutAssignment(line)
		if !ok {
			return nil, fmt.Errorf("line %d: expected NAME = VALUE", lineNo)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("line %d: empty setting name", lineNo)
		}
		info[name] = strings.TrimSuffix(strings.TrimSpace(value), ";")
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return info, nil
}

// stripComment removes a // comment that starts the line or follows
// whitespace. Base64 define blobs may contain "//" and never contain spaces.
func stripComment(line string) string {
	for i := 0; i+1 < len(line); i++ {
		if line[i] == '/' && line[i+1] == '/' && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

// cutAssignment splits at the first '=' outside a [condition] suffix.
func cutAssignment(line string) (name, value string, ok bool) {
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				return line[:i], line[i+1:], true
			}
		}
	}
	return "", "", false
}
