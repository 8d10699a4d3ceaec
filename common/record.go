package common

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
	"github.com/xor-shift/tangosat/keyrec"
	"github.com/xor-shift/tangosat/tango"
)

// RunRecord is one finished recovery as it travels between the binaries and
// into the database.
type RunRecord struct {
	RunID   uint      `json:"runId"`
	Started time.Time `json:"started"`
	Solver  string    `json:"solver"`

	Bits   int      `json:"bits"`
	HC     int      `json:"hc"`
	HC2    int      `json:"hc2"`
	HCI    int      `json:"hci"`
	NumObs int      `json:"numObs"`
	IV     []uint64 `json:"iv"`

	TrueKey   keyrec.Key `json:"trueKey"`
	Recovered keyrec.Key `json:"recovered"`

	Status     string `json:"status"`
	Exact      bool   `json:"exact"`
	Consistent bool   `json:"consistent"`

	Unknowns  int           `json:"unknowns"`
	Gates     int           `json:"gates"`
	Vars      int           `json:"vars"`
	Clauses   int           `json:"clauses"`
	SolveTime time.Duration `json:"solveTime"`

	Error string `json:"error,omitempty"`
}

func NewRunRecord(solver string, p tango.Params, key keyrec.Key, res keyrec.Result, started time.Time) RunRecord {
	return RunRecord{
		Started: started,
		Solver:  solver,

		Bits:   p.Bits,
		HC:     p.HC,
		HC2:    p.HC2,
		HCI:    p.HCI,
		NumObs: p.NumObs,
		IV:     append([]uint64(nil), p.IV...),

		TrueKey:   key.Masked(p),
		Recovered: res.Key,

		Status:     res.Status.String(),
		Exact:      res.Exact,
		Consistent: res.Consistent,

		Unknowns:  res.Stats.Unknowns,
		Gates:     res.Stats.Gates,
		Vars:      res.Stats.Vars,
		Clauses:   res.Stats.Clauses,
		SolveTime: res.Stats.SolveTime,
	}
}

// Params rebuilds the public parameters of the run.
func (r RunRecord) Params() tango.Params {
	return tango.Params{Bits: r.Bits, HC: r.HC, HC2: r.HC2, HCI: r.HCI, NumObs: r.NumObs, IV: r.IV}
}

func EncodeRunRecord(r RunRecord) ([]byte, error) {
	var buf bytes.Buffer

	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, errors.Wrap(err, "encoding run record")
	}

	return buf.Bytes(), nil
}

func ParseAMQPRecord(delivery *amqp.Delivery) (RunRecord, error) {
	var record RunRecord

	decoder := gob.NewDecoder(bytes.NewBuffer(delivery.Body))
	if err := decoder.Decode(&record); err != nil {
		return RunRecord{}, errors.Wrap(err, "decoding run record")
	}

	return record, nil
}
