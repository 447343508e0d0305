// Command optimize runs the renewal engine once over a lease file and
// writes the report.
//
//	optimize -in leases.csv -max 3
//	optimize -in leases.json -format csv -out renewals.csv
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/lease-engine/config"
	"github.com/warp/lease-engine/factory"
	"github.com/warp/lease-engine/renewal"
	"github.com/warp/lease-engine/report"
	"github.com/warp/lease-engine/store/memory"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "optimize:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	in := fs.String("in", "", "Lease file (.csv or .json)")
	cfgPath := fs.String("config", "", "YAML config file")
	maxPerDay := fs.Int("max", -1, "Renewals per day (overrides config)")
	format := fs.String("format", "text", "Output format: text, csv or json")
	out := fs.String("out", "", "Output path (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *maxPerDay >= 0 {
		cfg.MaxPerDay = *maxPerDay
	}
	logger := cfg.NewLogger()

	records, err := readRecords(*in)
	if err != nil {
		return err
	}

	svc := renewal.NewService(memory.New(), logger)
	saved, err := svc.Run(context.Background(), records, cfg.MaxPerDay, filepath.Base(*in))
	if err != nil {
		return err
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	renderer := report.Renderer{RowsPerPage: cfg.RowsPerPage, MaxPerDay: cfg.MaxPerDay}
	switch *format {
	case "text":
		return renderer.RenderText(w, saved.Result)
	case "csv":
		return renderer.RenderCSV(w, saved.Result)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Assignments  []renewal.OptimizedLease `json:"assignments"`
			Distribution map[string]int           `json:"distribution"`
		}{saved.Result.Assignments, saved.Result.Distribution})
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func readRecords(path string) ([]renewal.LeaseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return factory.ParseJSON(f)
	}
	return factory.ParseCSV(f)
}
