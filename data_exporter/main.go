package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/template"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/xor-shift/tangosat/common"
	"github.com/xor-shift/tangosat/store"
	"github.com/xor-shift/tangosat/tango"
	"github.com/xor-shift/tangosat/util"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("loading dotenv failed: %s", err)
	}
}

func main() {
	var err error

	var db *store.Store

	args := struct {
		Since              uint   `name:"since" short:"s" default:"0" help:"first run id to export"`
		Out                string `name:"out" short:"o" default:"runs_from_{{.Since}}.{{.Format}}" help:"File to output to (templated)"`
		Format             string `name:"format" short:"f" enum:"csv,json" default:"csv" help:"Data format"`
		ExportColumnTitles bool   `name:"export_column_titles" negatable:"" default:"true" help:"(applicable only to CSV outputs) whether to include column titles for CSV exports"`
	}{}

	_ = kong.Parse(&args)

	if db, err = store.Open(store.ConfigFromEnv()); err != nil {
		log.Fatalln(err)
	}

	var records []common.RunRecord
	if records, err = db.Runs(context.TODO(), args.Since); err != nil {
		log.Fatalf("Failed to fetch runs since %d: %s", args.Since, err)
	}

	db.Close()

	var outFileNameTemplate *template.Template
	if outFileNameTemplate, err = template.New("").Parse(args.Out); err != nil {
		log.Fatalf("error while creating the output filename template: %s", err)
	}

	outFileNameBuf := bytes.Buffer{}

	templateArguments := struct {
		Since  uint
		Format string
	}{
		Since:  args.Since,
		Format: args.Format,
	}

	if err = outFileNameTemplate.Execute(&outFileNameBuf, templateArguments); err != nil {
		log.Fatalf("error while executing the output filename template: %s", err)
	}

	outFileName := outFileNameBuf.String()

	var outFile *os.File
	if outFile, err = os.Create(outFileName); err != nil {
		log.Fatalf("error while creating the output file \"%s\": %s", outFileName, err)
	}
	defer outFile.Close()

	if args.Format == "json" {
		encoder := json.NewEncoder(outFile)
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(records); err != nil {
			log.Fatalf("error while writing %s: %s", outFileName, err)
		}
		return
	}

	csvWriter := csv.NewWriter(outFile)

	if args.ExportColumnTitles {
		_ = csvWriter.Write([]string{
			"Run ID",
			"Started",
			"Solver",
			"Bits",
			"HC",
			"HC2",
			"HCI",
			"Observation Groups",
			"Nonce",
			"True Key",
			"Recovered Key",
			"Status",
			"Exact",
			"Consistent",
			"Unknowns",
			"Gates",
			"Variables",
			"Clauses",
			"Solve Seconds",
		})
	}

	for _, r := range records {
		p := r.Params()

		rowStrings := []string{}

		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.RunID))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.Started.Unix()))
		rowStrings = append(rowStrings, r.Solver)
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.Bits))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.HC))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.HC2))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.HCI))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.NumObs))
		rowStrings = append(rowStrings, util.ArrayToString(r.IV, uint(r.Bits)))
		rowStrings = append(rowStrings, keyHex(r.TrueKey.Hex, p))
		rowStrings = append(rowStrings, keyHex(r.Recovered.Hex, p))
		rowStrings = append(rowStrings, r.Status)
		rowStrings = append(rowStrings, fmt.Sprintf("%v", r.Exact))
		rowStrings = append(rowStrings, fmt.Sprintf("%v", r.Consistent))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.Unknowns))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.Gates))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.Vars))
		rowStrings = append(rowStrings, fmt.Sprintf("%d", r.Clauses))
		rowStrings = append(rowStrings, fmt.Sprintf("%f", r.SolveTime.Seconds()))

		_ = csvWriter.Write(rowStrings)
	}

	csvWriter.Flush()
}

// keyHex guards against records whose width is unusable (failed runs).
func keyHex(hex func(tango.Params) string, p tango.Params) string {
	if p.Bits < 1 || p.Bits > 64 {
		return ""
	}

	return hex(p)
}
