package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"indexdb/pkg/storage"
	"indexdb/pkg/workload"

	"github.com/spf13/cobra"
)

var (
	count      int
	seed       int64
	sequential bool
)

func main() {
	root := &cobra.Command{
		Use:          "indexdb-seed <out.csv|out.db>",
		Short:        "Generate synthetic student records into a CSV or SQLite seed file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSeed(args[0])
		},
	}
	root.Flags().IntVarP(&count, "count", "n", 1000, "number of records")
	root.Flags().Int64Var(&seed, "rand-seed", 1, "random seed")
	root.Flags().BoolVar(&sequential, "sequential", false, "emit ids in ascending order")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func writeSeed(path string) error {
	records := workload.NewGenerator(seed).Records(count, sequential)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := storage.WriteCSV(f, records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	default:
		src, err := storage.NewSQLiteSource(path)
		if err != nil {
			return err
		}
		defer src.Close()
		if err := src.Truncate(); err != nil {
			return err
		}
		if err := src.Save(records); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %d records to %s\n", len(records), path)
	return nil
}
