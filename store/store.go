// Package store persists run records in MySQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/xor-shift/tangosat/common"
)

const Schema = `CREATE TABLE IF NOT EXISTS runs (
	run_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	insert_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	started DATETIME(6) NOT NULL,
	solver VARCHAR(32) NOT NULL,
	bits INT NOT NULL,
	hc INT NOT NULL,
	hc2 INT NOT NULL,
	hci INT NOT NULL,
	num_obs INT NOT NULL,
	iv JSON NOT NULL,
	true_key JSON NOT NULL,
	recovered_key JSON NOT NULL,
	status VARCHAR(16) NOT NULL,
	exact BOOL NOT NULL,
	consistent BOOL NOT NULL,
	unknowns INT NOT NULL,
	gates INT NOT NULL,
	vars INT NOT NULL,
	clauses INT NOT NULL,
	solve_us BIGINT NOT NULL,
	error TEXT NOT NULL
)`

const (
	insertQuery = "INSERT INTO runs (started, solver, bits, hc, hc2, hci, num_obs, iv" +
		", true_key, recovered_key, status, exact, consistent" +
		", unknowns, gates, vars, clauses, solve_us, error" +
		") VALUES (?, ?, ?, ?, ?, ?, ?, ?, " +
		"?, ?, ?, ?, ?, " +
		"?, ?, ?, ?, ?, ?)"

	selectQuery = "SELECT run_id, started, solver, bits, hc, hc2, hci, num_obs, iv" +
		", true_key, recovered_key, status, exact, consistent" +
		", unknowns, gates, vars, clauses, solve_us, error" +
		" FROM runs WHERE run_id >= ? ORDER BY run_id"
)

// ConfigFromEnv builds the connection settings from DB_USER, DB_PASSWORD,
// DB_ADDRESS and DB_NAME.
func ConfigFromEnv() mysql.Config {
	return mysql.Config{
		User:                 os.Getenv("DB_USER"),
		Passwd:               os.Getenv("DB_PASSWORD"),
		Addr:                 os.Getenv("DB_ADDRESS"),
		DBName:               os.Getenv("DB_NAME"),
		Collation:            "utf8mb4_general_ci",
		Net:                  "tcp",
		AllowNativePasswords: true,
		ParseTime:            true,
	}
}

type Store struct {
	db *sql.DB
}

func Open(cfg mysql.Config) (*Store, error) {
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	return &Store{db: db}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return errors.Wrap(err, "creating runs table")
}

// Insert stores a record and returns the run id it was given.
func (s *Store) Insert(ctx context.Context, r common.RunRecord) (uint, error) {
	args, err := insertArgs(r)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, insertQuery, args...)
	if err != nil {
		return 0, errors.Wrap(err, "inserting run")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return uint(id), tx.Commit()
}

// Runs lists the records with run id at least since, oldest first.
func (s *Store) Runs(ctx context.Context, since uint) ([]common.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectQuery, since)
	if err != nil {
		return nil, errors.Wrap(err, "selecting runs")
	}
	defer rows.Close()

	var ret []common.RunRecord
	for i := 0; rows.Next(); i++ {
		var r common.RunRecord
		var ivString, trueString, recoveredString string
		var solveMicros int64

		if err = rows.Scan(
			&r.RunID, &r.Started, &r.Solver,
			&r.Bits, &r.HC, &r.HC2, &r.HCI, &r.NumObs, &ivString,
			&trueString, &recoveredString, &r.Status, &r.Exact, &r.Consistent,
			&r.Unknowns, &r.Gates, &r.Vars, &r.Clauses, &solveMicros, &r.Error,
		); err != nil {
			return nil, errors.Wrapf(err, "reading row %d", i)
		}

		if err = decodeColumns(&r, ivString, trueString, recoveredString, solveMicros); err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}

		ret = append(ret, r)
	}

	return ret, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func insertArgs(r common.RunRecord) ([]interface{}, error) {
	iv, err := json.Marshal(words(r.IV))
	if err != nil {
		return nil, err
	}

	trueKey, err := json.Marshal(r.TrueKey)
	if err != nil {
		return nil, err
	}

	recovered, err := json.Marshal(r.Recovered)
	if err != nil {
		return nil, err
	}

	return []interface{}{
		r.Started, r.Solver, r.Bits, r.HC, r.HC2, r.HCI, r.NumObs, string(iv),
		string(trueKey), string(recovered), r.Status, r.Exact, r.Consistent,
		r.Unknowns, r.Gates, r.Vars, r.Clauses, r.SolveTime.Microseconds(), r.Error,
	}, nil
}

func decodeColumns(r *common.RunRecord, iv, trueKey, recovered string, solveMicros int64) error {
	if err := json.Unmarshal([]byte(iv), &r.IV); err != nil {
		return errors.Wrap(err, "iv column")
	}

	if err := json.Unmarshal([]byte(trueKey), &r.TrueKey); err != nil {
		return errors.Wrap(err, "true_key column")
	}

	if err := json.Unmarshal([]byte(recovered), &r.Recovered); err != nil {
		return errors.Wrap(err, "recovered_key column")
	}

	r.SolveTime = time.Duration(solveMicros) * time.Microsecond

	return nil
}

// words keeps empty nonces as [] rather than null in the JSON column.
func words(w []uint64) []uint64 {
	if w == nil {
		return []uint64{}
	}

	return w
}
