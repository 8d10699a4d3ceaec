package store

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xor-shift/tangosat/common"
	"github.com/xor-shift/tangosat/keyrec"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DB_USER", "tango")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_ADDRESS", "db:3306")
	t.Setenv("DB_NAME", "runs")

	cfg := ConfigFromEnv()
	dsn := cfg.FormatDSN()
	if !strings.HasPrefix(dsn, "tango:secret@tcp(db:3306)/runs?") {
		t.Errorf("unexpected DSN %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN %q does not parse times", dsn)
	}
}

func TestColumnsRoundTrip(t *testing.T) {
	r := common.RunRecord{
		Started:   time.Unix(1000, 0),
		Solver:    "gini",
		Bits:      4,
		IV:        []uint64{15, 9},
		TrueKey:   keyrec.Key{Seed: 4, Seed1: 12, Hash: []uint64{3, 14}},
		Recovered: keyrec.Key{Seed: 4, Seed1: 12, Hash: []uint64{3, 14}},
		Status:    "sat",
		SolveTime: 1500 * time.Microsecond,
	}

	args, err := insertArgs(r)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(insertQuery, "?"); got != len(args) {
		t.Fatalf("query has %d placeholders for %d arguments", got, len(args))
	}

	var back common.RunRecord
	if err := decodeColumns(&back, args[7].(string), args[8].(string), args[9].(string), args[17].(int64)); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(r.IV, back.IV); diff != "" {
		t.Errorf("iv (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(r.TrueKey, back.TrueKey); diff != "" {
		t.Errorf("true key (-want +got):\n%s", diff)
	}
	if back.SolveTime != r.SolveTime {
		t.Errorf("solve time %s, want %s", back.SolveTime, r.SolveTime)
	}
}

func TestEmptyNonceColumn(t *testing.T) {
	args, err := insertArgs(common.RunRecord{})
	if err != nil {
		t.Fatal(err)
	}
	if args[7] != "[]" {
		t.Errorf("nil nonce stored as %v", args[7])
	}
}
