// Command export reads quarterly series from FAME snapshot files and writes
// them as CSV, without going through the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"FameFeed/internal/domain/models"
	internalrepo "FameFeed/internal/repository"
	"FameFeed/internal/usecase"
	"FameFeed/pkg/util"
)

func main() {
	var (
		dbFlag      = flag.String("db", "", "comma-separated snapshot file paths (required)")
		seriesFlag  = flag.String("series", "", "comma-separated series names (default: all quarterly series)")
		startFlag   = flag.String("start", "", "start period, YYYYQn or YYYY (default: earliest stored)")
		endFlag     = flag.String("end", "", "end period, YYYYQn or YYYY (default: latest stored)")
		compareFlag = flag.String("compare", "", "compare one series across all databases instead of reading")
		outFlag     = flag.String("o", "", "output file (default: stdout)")
	)
	flag.Parse()

	if *dbFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*dbFlag, *seriesFlag, *startFlag, *endFlag, *compareFlag, *outFlag); err != nil {
		log.Fatalf("export: %v", err)
	}
}

func run(dbRaw, seriesRaw, startRaw, endRaw, compare, out string) error {
	ctx := context.Background()

	start, end, err := parseBounds(startRaw, endRaw)
	if err != nil {
		return err
	}

	paths := splitList(dbRaw)
	mnemonics := util.Mnemonics(paths)

	reg := usecase.NewStoreRegistry()
	defer reg.Close()
	for i, path := range paths {
		store, err := internalrepo.OpenSQLiteSeriesStore(ctx, path)
		if err != nil {
			return err
		}
		reg.Add(mnemonics[i], "sqlite", store)
	}

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if compare != "" {
		table, err := usecase.NewComparator(reg).Compare(ctx, mnemonics, compare, start, end)
		if err != nil {
			return err
		}
		return table.WriteCSV(w)
	}

	reader := usecase.NewSeriesReader(reg)
	for i, mnemonic := range mnemonics {
		table, err := reader.Read(ctx, usecase.ReadQuery{
			Database: mnemonic,
			Names:    splitList(seriesRaw),
			Start:    start,
			End:      end,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", mnemonic, err)
		}
		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", mnemonic)
		}
		if err := table.WriteCSV(w); err != nil {
			return err
		}
	}
	return nil
}

func parseBounds(startRaw, endRaw string) (start, end models.Quarter, err error) {
	if startRaw != "" {
		if start, err = models.ParsePeriod(startRaw, models.RangeStart); err != nil {
			return start, end, err
		}
	}
	if endRaw != "" {
		if end, err = models.ParsePeriod(endRaw, models.RangeEnd); err != nil {
			return start, end, err
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return start, end, fmt.Errorf("start %s after end %s", start, end)
	}
	return start, end, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
