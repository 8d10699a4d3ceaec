package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		s, err := Preset(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("%s does not validate: %v", name, err)
		}
	}

	if _, err := Preset("nope"); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestPresetIsACopy(t *testing.T) {
	a, _ := Preset("reference")
	a.IV[0] = 99

	b, _ := Preset("reference")
	if b.IV[0] != 15 {
		t.Fatal("modifying a preset leaked into the table")
	}
}

func TestLoadJSON(t *testing.T) {
	s, err := LoadJSON([]byte(`{"bits": 8, "hci": 1, "iv": [1, 2], "seed": 200, "solver": "gophersat"}`))
	if err != nil {
		t.Fatal(err)
	}

	want, _ := Preset("reference")
	want.Bits = 8
	want.HCI = 1
	want.IV = []uint64{1, 2}
	want.Seed = 200
	want.Solver = "gophersat"

	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadJSONRejects(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":  `{"bitz": 4}`,
		"odd width":    `{"bits": 5}`,
		"hci above hc": `{"hci": 40}`,
		"bad solver":   `{"solver": "z3"}`,
		"short hcv":    `{"hcv": [1]}`,
		"not json":     `bits=4`,
	} {
		if _, err := LoadJSON([]byte(body)); err == nil {
			t.Errorf("%s: accepted %s", name, body)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte(`{"num_obs": 4}`), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumObs != 4 || s.Bits != 4 {
		t.Errorf("got num_obs=%d bits=%d", s.NumObs, s.Bits)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestReadFileOverAnyPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte(`{"num_obs": 3}`), 0o600); err != nil {
		t.Fatal(err)
	}

	raw, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	base, _ := Preset("wide")
	s, err := Decode(base, raw)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumObs != 3 || s.Bits != 8 || s.Seed != 0x4d {
		t.Errorf("file did not layer over the wide preset: %+v", s)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TANGO_BITS", "8")
	t.Setenv("TANGO_IV", "0x10,32")
	t.Setenv("TANGO_SEED", "0x4d")
	t.Setenv("TANGO_HCV", "1,2,3")

	base, _ := Preset("reference")
	s, err := FromEnv(base)
	if err != nil {
		t.Fatal(err)
	}

	if s.Bits != 8 || s.Seed != 0x4d {
		t.Errorf("bits=%d seed=%#x", s.Bits, s.Seed)
	}
	if diff := cmp.Diff([]uint64{0x10, 32}, s.IV); diff != "" {
		t.Errorf("iv (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint64{1, 2, 3}, s.HCV); diff != "" {
		t.Errorf("hcv (-want +got):\n%s", diff)
	}
}

func TestSimulationConversions(t *testing.T) {
	s, _ := Preset("reference")

	p := s.Params()
	if p.Bits != 4 || p.HC != 16 || p.HCI != 2 || len(p.IV) != 4 {
		t.Errorf("params %+v", p)
	}

	k := s.Key()
	if k.Seed != 4 || k.Seed1 != 12 || len(k.Hash) != 32 {
		t.Errorf("key %v", k)
	}

	b, err := s.Backend()
	if err != nil || b.Name() != "gini" {
		t.Errorf("backend %v, %v", b, err)
	}
}
