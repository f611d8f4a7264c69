package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"table-check/internal/check"
	"table-check/internal/frame"
	"table-check/internal/report"
	"table-check/internal/schema"

	"github.com/gosuri/uiprogress"
)

type reportMode string

const (
	modeSummary reportMode = "summary"
	modeDetail  reportMode = "detail"
)

// runCheck drives the full validation pipeline for one raw file: load the
// table definition and format, read the data, walk every column, and render
// the requested report.
func runCheck(rawFile string, mode reportMode, toStdout bool) error {
	paths, err := GetPaths()
	if err != nil {
		return err
	}

	table := tableName(rawFile)
	if table == "" {
		return fmt.Errorf("cannot derive a table name from %q", rawFile)
	}

	start := time.Now()

	// 1. Table definition and file format
	log.Printf("Loading definition for table %s...", table)
	sch, err := schema.LoadColumns(filepath.Join(paths.DataConf, table+".csv"))
	if err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}
	format, err := schema.LoadFormat(filepath.Join(paths.DataConf, table+".yml"))
	if err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}

	// 2. Raw data
	dataPath := filepath.Join(paths.Data, filepath.Base(rawFile))
	log.Printf("Reading %s...", dataPath)
	f, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}
	defer f.Close()

	fr, err := frame.Load(f, sch, format)
	if err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}
	log.Printf("Loaded %d rows, %d columns", fr.Rows(), fr.NumCols())

	// 3. Validate
	checker, err := check.New(sch, fr)
	if err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(len(sch.Columns)).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return "Checking:   "
	})
	for i := range sch.Columns {
		if _, err := checker.MaxSizeOf(sch.Columns[i].Name); err != nil {
			uiprogress.Stop()
			return fmt.Errorf("table %s: %w", table, err)
		}
		bar.Incr()
	}
	uiprogress.Stop()

	// 4. Render
	var text string
	switch mode {
	case modeDetail:
		text = report.Detail(sch, checker)
	default:
		text = report.Summary(checker)
	}

	findings := 0
	findings += len(checker.SizeErrorColumns())
	findings += len(checker.NotNullErrorColumns())
	if checker.SuperkeyViolation() {
		findings++
	}

	elapsed := time.Since(start)

	if toStdout {
		fmt.Print(text)
		log.Printf("Check done! Findings: %d, Time Elapsed: %s", findings, elapsed)
		return nil
	}

	if err := os.MkdirAll(paths.Output, 0o755); err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}
	outPath := filepath.Join(paths.Output, fmt.Sprintf("%s-%s.txt", table, mode))
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}

	fmt.Printf("Report written to %s\n", outPath)
	log.Printf("Check done! Findings: %d, Time Elapsed: %s", findings, elapsed)
	return nil
}

// tableName strips the directory and the last extension from a raw file
// argument, so "data/orders.tsv" and "orders.tsv" both map to table "orders".
func tableName(rawFile string) string {
	base := filepath.Base(rawFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
