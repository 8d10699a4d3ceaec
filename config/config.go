// Package config loads simulation parameters from presets, .env/environment
// variables and JSON parameter files.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/xor-shift/tangosat/keyrec"
	"github.com/xor-shift/tangosat/sat"
	"github.com/xor-shift/tangosat/tango"
)

// Simulation is everything one run needs: the public parameters, the key the
// concrete run is seeded with, and the solver backend.
type Simulation struct {
	Bits   int      `mapstructure:"bits" json:"bits"`
	HC     int      `mapstructure:"hc" json:"hc"`
	HC2    int      `mapstructure:"hc2" json:"hc2"`
	HCI    int      `mapstructure:"hci" json:"hci"`
	NumObs int      `mapstructure:"num_obs" json:"num_obs"`
	IV     []uint64 `mapstructure:"iv" json:"iv"`

	Seed  uint64   `mapstructure:"seed" json:"seed"`
	Seed1 uint64   `mapstructure:"seed1" json:"seed1"`
	HCV   []uint64 `mapstructure:"hcv" json:"hcv"`

	Solver string `mapstructure:"solver" json:"solver"`
}

var presets = map[string]Simulation{
	"reference": {
		Bits:   4,
		HC:     16,
		HC2:    16,
		HCI:    2,
		NumObs: 16,
		IV:     []uint64{15, 9, 4, 6},
		Seed:   4,
		Seed1:  12,
		HCV:    []uint64{3, 14, 3, 13, 14, 4, 2, 15, 2, 5, 6, 11, 9, 1, 11, 5, 8, 6, 10, 7, 5, 6, 3, 10, 3, 0, 2, 9, 9, 12, 15, 11},
		Solver: sat.DefaultBackend,
	},
	"wide": {
		Bits:   8,
		HC:     16,
		HC2:    16,
		HCI:    1,
		NumObs: 16,
		IV:     []uint64{0xf1, 0x9e, 0x46, 0x6b},
		Seed:   0x4d,
		Seed1:  0xc2,
		HCV:    []uint64{0x3e, 0x1b},
		Solver: sat.DefaultBackend,
	},
	// tiny solves in milliseconds and still has a single consistent key.
	"tiny": {
		Bits:   2,
		HC:     4,
		HC2:    4,
		HCI:    1,
		NumObs: 4,
		IV:     []uint64{1, 2},
		Seed:   1,
		Seed1:  2,
		HCV:    []uint64{3},
		Solver: sat.DefaultBackend,
	},
}

// Preset returns a copy of a named built-in configuration.
func Preset(name string) (Simulation, error) {
	s, ok := presets[name]
	if !ok {
		return Simulation{}, errors.Errorf("unknown preset %q", name)
	}

	s.IV = append([]uint64(nil), s.IV...)
	s.HCV = append([]uint64(nil), s.HCV...)

	return s, nil
}

func PresetNames() []string {
	return []string{"reference", "wide", "tiny"}
}

func (s Simulation) Params() tango.Params {
	return tango.Params{
		Bits:   s.Bits,
		HC:     s.HC,
		HC2:    s.HC2,
		HCI:    s.HCI,
		NumObs: s.NumObs,
		IV:     s.IV,
	}
}

func (s Simulation) Key() keyrec.Key {
	return keyrec.Key{Seed: s.Seed, Seed1: s.Seed1, Hash: s.HCV}
}

func (s Simulation) Backend() (sat.Backend, error) {
	return sat.ByName(s.Solver)
}

func (s Simulation) Validate() error {
	if err := s.Params().Validate(); err != nil {
		return err
	}

	if len(s.HCV) < s.HCI {
		return errors.Errorf("hcv has %d words, hci=%d needs at least that many", len(s.HCV), s.HCI)
	}

	if _, err := s.Backend(); err != nil {
		return err
	}

	return nil
}

func (s Simulation) toMap() map[string]interface{} {
	return map[string]interface{}{
		"bits":    s.Bits,
		"hc":      s.HC,
		"hc2":     s.HC2,
		"hci":     s.HCI,
		"num_obs": s.NumObs,
		"iv":      s.IV,
		"seed":    s.Seed,
		"seed1":   s.Seed1,
		"hcv":     s.HCV,
		"solver":  s.Solver,
	}
}

// Decode overlays raw on base. Values may be numbers, numeric strings or, for
// the word lists, comma separated strings.
func Decode(base Simulation, raw map[string]interface{}) (Simulation, error) {
	merged := base.toMap()
	for k, v := range raw {
		merged[k] = v
	}

	var ret Simulation
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &ret,
	})
	if err != nil {
		return Simulation{}, err
	}

	if err = decoder.Decode(merged); err != nil {
		return Simulation{}, errors.Wrap(err, "decoding simulation parameters")
	}

	return ret, ret.Validate()
}

// ReadFile reads a JSON object of parameters without applying it to
// anything; pass the result to Decode.
func ReadFile(path string) (map[string]interface{}, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	return parseJSON(body)
}

func parseJSON(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing parameter JSON")
	}

	return raw, nil
}

// LoadFile reads a JSON object of parameters over the reference preset.
func LoadFile(path string) (Simulation, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return Simulation{}, err
	}

	base, _ := Preset("reference")
	return Decode(base, raw)
}

func LoadJSON(body []byte) (Simulation, error) {
	raw, err := parseJSON(body)
	if err != nil {
		return Simulation{}, err
	}

	base, _ := Preset("reference")
	return Decode(base, raw)
}

var envKeys = map[string]string{
	"TANGO_BITS":    "bits",
	"TANGO_HC":      "hc",
	"TANGO_HC2":     "hc2",
	"TANGO_HCI":     "hci",
	"TANGO_NUM_OBS": "num_obs",
	"TANGO_IV":      "iv",
	"TANGO_SEED":    "seed",
	"TANGO_SEED1":   "seed1",
	"TANGO_HCV":     "hcv",
	"TANGO_SOLVER":  "solver",
}

// FromEnv loads .env if present and overlays any TANGO_* variables on base.
func FromEnv(base Simulation) (Simulation, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Simulation{}, errors.Wrap(err, "loading .env")
	}

	raw := map[string]interface{}{}
	for env, key := range envKeys {
		if v, ok := os.LookupEnv(env); ok {
			raw[key] = strings.TrimSpace(v)
		}
	}

	return Decode(base, raw)
}
