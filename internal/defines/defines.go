// Package defines decodes and encodes Flutter dart-define blobs.
//
// A blob is a comma-separated list of tokens. Each token is the standard
// base64 encoding of UTF-8 text of the form KEY=VALUE.
package defines

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Separator joins encoded tokens inside a blob.
const Separator = ","

// Define is a single decoded KEY=VALUE pair.
type Define struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// String returns the KEY=VALUE form of d.
func (d Define) String() string {
	return d.Key + "=" + d.Value
}

// Reason describes why a token could not be decoded.
type Reason string

const (
	ReasonBase64     Reason = "invalid base64"
	ReasonUTF8       Reason = "decoded text is not valid UTF-8"
	ReasonAssignment Reason = "decoded text does not contain exactly one '='"
)

// Skipped records a token the lenient parser ignored.
type Skipped struct {
	Index  int    `json:"index"`
	Token  string `json:"token"`
	Reason Reason `json:"reason"`
}

// TokenError is returned by the strict parser for the first malformed token.
type TokenError struct {
	Index  int
	Token  string
	Reason Reason
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("define token %d (%q): %s", e.Index, e.Token, e.Reason)
}

// DecodeToken decodes one token. It returns a *TokenError if the token is
// not valid base64, is not UTF-8, or does not hold exactly one '='.
func DecodeToken(index int, token string) (Define, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Define{}, &TokenError{Index: index, Token: token, Reason: ReasonBase64}
	}
	if !utf8.Valid(raw) {
		return Define{}, &TokenError{Index: index, Token: token, Reason: ReasonUTF8}
	}

	parts := strings.Split(string(raw), "=")
	if len(parts) != 2 {
		return Define{}, &TokenError{Index: index, Token: token, Reason: ReasonAssignment}
	}

	return Define{Key: parts[0], Value: parts[1]}, nil
}

func tokens(blob string) []string {
	if blob == "" {
		return nil
	}
	return strings.Split(blob, Separator)
}

func skippedFrom(err error) Skipped {
	te := err.(*TokenError)
	return Skipped{Index: te.Index, Token: te.Token, Reason: te.Reason}
}

// Parse decodes every token in blob, skipping malformed ones.
func Parse(blob string) ([]Define, []Skipped) {
	var (
		out     []Define
		skipped []Skipped
	)
	for i, tok := range tokens(blob) {
		d, err := DecodeToken(i, tok)
		if err != nil {
			skipped = append(skipped, skippedFrom(err))
			continue
		}
		out = append(out, d)
	}
	return out, skipped
}

// ParseStrict decodes every token in blob and fails on the first malformed one.
func ParseStrict(blob string) ([]Define, error) {
	var out []Define
	for i, tok := range tokens(blob) {
		d, err := DecodeToken(i, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Lookup scans blob left to right and returns the value of the first define
// whose key equals key. Scanning stops at the first match, so tokens after it
// are neither decoded nor reported. Malformed tokens before the match are
// returned in skipped.
func Lookup(blob, key string) (value string, found bool, skipped []Skipped) {
	for i, tok := range tokens(blob) {
		d, err := DecodeToken(i, tok)
		if err != nil {
			skipped = append(skipped, skippedFrom(err))
			continue
		}
		if d.Key == key {
			return d.Value, true, skipped
		}
	}
	return "", false, skipped
}

// LookupStrict is Lookup that fails on the first malformed token it reaches.
func LookupStrict(blob, key string) (string, bool, error) {
	for i, tok := range tokens(blob) {
		d, err := DecodeToken(i, tok)
		if err != nil {
			return "", false, err
		}
		if d.Key == key {
			return d.Value, true, nil
		}
	}
	return "", false, nil
}

// ParseAssignment parses a KEY=VALUE command-line argument. Values may not
// contain '=' because the decoder would reject the resulting token.
func ParseAssignment(s string) (Define, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return Define{}, fmt.Errorf("invalid define %q (expected KEY=VALUE)", s)
	}
	if key == "" {
		return Define{}, fmt.Errorf("invalid define %q: key is empty", s)
	}
	if strings.Contains(value, "=") {
		return Define{}, fmt.Errorf("invalid define %q: value must not contain '='", s)
	}
	return Define{Key: key, Value: value}, nil
}

// Encode produces a blob from defs in the order given.
func Encode(defs []Define) string {
	toks := make([]string, 0, len(defs))
	for _, d := range defs {
		toks = append(toks, base64.StdEncoding.EncodeToString([]byte(d.String())))
	}
	return strings.Join(toks, Separator)
}
