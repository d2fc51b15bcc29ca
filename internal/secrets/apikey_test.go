package secrets

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/szaher/mapskey/internal/defines"
)

func enc(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestOSEnv_LookupEnv(t *testing.T) {
	t.Setenv("MAPS_API_KEY", "from-os")

	v, ok := OSEnv{}.LookupEnv("MAPS_API_KEY")
	if !ok || v != "from-os" {
		t.Errorf("got %q/%v, want from-os/true", v, ok)
	}
}

func TestResolveAPIKey_EnvWins(t *testing.T) {
	blobs := []string{
		"",
		enc("MAPS_API_KEY=from-defines"),
		"%%%garbage",
		enc("MAPS_API_KEY=YOUR_API_KEY"),
	}
	env := MapEnv{"MAPS_API_KEY": "from-env"}

	for _, blob := range blobs {
		got, err := ResolveAPIKey(env, blob)
		if err != nil {
			t.Fatalf("blob %q: unexpected error: %v", blob, err)
		}
		if got != "from-env" {
			t.Errorf("blob %q: got %q, want from-env", blob, got)
		}
	}
}

func TestResolveAPIKey_FromDefines(t *testing.T) {
	got, err := ResolveAPIKey(MapEnv{}, enc("MAPS_API_KEY=abc123"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abc123" {
		t.Errorf("got %q, want abc123", got)
	}
}

func TestResolveAPIKey_ScansAllTokens(t *testing.T) {
	got, err := ResolveAPIKey(MapEnv{}, enc("OTHER=1")+","+enc("MAPS_API_KEY=xyz"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "xyz" {
		t.Errorf("got %q, want xyz", got)
	}
}

func TestResolveAPIKey_EmptyEnvFallsThrough(t *testing.T) {
	got, err := ResolveAPIKey(MapEnv{"MAPS_API_KEY": ""}, enc("MAPS_API_KEY=abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
}

func TestResolveAPIKey_NilEnv(t *testing.T) {
	got, err := ResolveAPIKey(nil, enc("MAPS_API_KEY=abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
}

func TestResolveAPIKey_Missing(t *testing.T) {
	tests := []struct {
		name string
		env  MapEnv
		blob string
	}{
		{name: "nothing configured", env: MapEnv{}},
		{name: "no matching define", env: MapEnv{}, blob: enc("OTHER=1")},
		{name: "placeholder via env", env: MapEnv{"MAPS_API_KEY": "YOUR_API_KEY"}, blob: enc("MAPS_API_KEY=real")},
		{name: "placeholder via defines", env: MapEnv{}, blob: enc("MAPS_API_KEY=YOUR_API_KEY")},
		{name: "empty define value stops scan", env: MapEnv{}, blob: enc("MAPS_API_KEY=") + "," + enc("MAPS_API_KEY=real")},
		{name: "only candidate malformed", env: MapEnv{}, blob: enc("MAPS_API_KEY")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveAPIKey(tt.env, tt.blob)
			if !errors.Is(err, ErrMissingConfiguration) {
				t.Fatalf("expected ErrMissingConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), "--dart-define=MAPS_API_KEY=<api-key>") {
				t.Errorf("error does not name the override: %q", err.Error())
			}
		})
	}
}

func TestKeyResolver_ReportsSourceAndSkipped(t *testing.T) {
	r := NewKeyResolver()

	res, err := r.Resolve(MapEnv{}, enc("MALFORMED")+","+enc("MAPS_API_KEY=abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceDefines {
		t.Errorf("source = %q, want %q", res.Source, SourceDefines)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != defines.ReasonAssignment {
		t.Errorf("unexpected skipped tokens: %+v", res.Skipped)
	}
}

func TestKeyResolver_PlaceholderFlag(t *testing.T) {
	r := NewKeyResolver()

	res, err := r.Resolve(MapEnv{}, "")
	var mce *MissingConfigurationError
	if !errors.As(err, &mce) {
		t.Fatalf("expected *MissingConfigurationError, got %v", err)
	}
	if mce.Placeholder {
		t.Error("nothing was supplied, Placeholder should be false")
	}
	if res.Source != SourcePlaceholder || res.Value != DefaultPlaceholder {
		t.Errorf("got %+v, want placeholder resolution", res)
	}

	_, err = r.Resolve(MapEnv{"MAPS_API_KEY": DefaultPlaceholder}, "")
	if !errors.As(err, &mce) || !mce.Placeholder {
		t.Errorf("explicit placeholder should set Placeholder, got %v", err)
	}
}

func TestKeyResolver_CustomVariable(t *testing.T) {
	r := &KeyResolver{Variable: "GOOGLE_MAPS_KEY", Placeholder: "CHANGE_ME"}

	got, err := r.Resolve(MapEnv{"MAPS_API_KEY": "ignored"}, enc("GOOGLE_MAPS_KEY=custom"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != "custom" {
		t.Errorf("got %q, want custom", got.Value)
	}

	_, err = r.Resolve(MapEnv{"GOOGLE_MAPS_KEY": "CHANGE_ME"}, "")
	if err == nil || !strings.Contains(err.Error(), "--dart-define=GOOGLE_MAPS_KEY=<api-key>") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestKeyResolver_Strict(t *testing.T) {
	r := NewKeyResolver()
	r.Strict = true

	_, err := r.Resolve(MapEnv{}, enc("MALFORMED")+","+enc("MAPS_API_KEY=abc"))
	var te *defines.TokenError
	if !errors.As(err, &te) {
		t.Fatalf("expected *defines.TokenError, got %v", err)
	}
	if errors.Is(err, ErrMissingConfiguration) {
		t.Error("strict decode failure should not be reported as missing configuration")
	}

	res, err := r.Resolve(MapEnv{}, enc("MAPS_API_KEY=abc")+",%%%")
	if err != nil {
		t.Fatalf("tokens after the match should not be checked: %v", err)
	}
	if res.Value != "abc" {
		t.Errorf("got %q, want abc", res.Value)
	}

	if _, err := r.Resolve(MapEnv{"MAPS_API_KEY": "env"}, "%%%"); err != nil {
		t.Errorf("env value should win before defines are decoded: %v", err)
	}
}
