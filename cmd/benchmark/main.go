package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"indexdb/pkg/config"
	"indexdb/pkg/core"
	"indexdb/pkg/workload"

	"github.com/spf13/cobra"
)

var (
	nRecords   int
	nQueries   int
	degree     int
	sequential bool
	randSeed   int64
)

type result struct {
	kind            core.Kind
	load            time.Duration
	find, rng, pref float64
	queries         time.Duration
}

func main() {
	root := &cobra.Command{
		Use:          "indexdb-benchmark",
		Short:        "Compare key comparisons per query for the BST and B-tree index backends",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			run()
			return nil
		},
	}
	root.Flags().IntVarP(&nRecords, "records", "n", 20000, "records to insert")
	root.Flags().IntVarP(&nQueries, "queries", "q", 2000, "queries per operation")
	root.Flags().IntVar(&degree, "degree", 32, "B-tree degree")
	root.Flags().BoolVar(&sequential, "sequential", false, "insert ids in ascending order (BST worst case)")
	root.Flags().Int64Var(&randSeed, "rand-seed", 1, "random seed")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() {
	fmt.Printf("indexdb comparison benchmark (N=%d, Q=%d, sequential=%v)\n", nRecords, nQueries, sequential)
	fmt.Println("---------------------------------------------------")

	var results []result
	for _, kind := range []core.Kind{core.KindBST, core.KindBTree} {
		fmt.Printf(">> %s...\n", kind)
		results = append(results, bench(kind))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nindex\tload\tfind cmp/op\trange cmp/op\tprefix cmp/op\tquery time")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%v\t%.1f\t%.1f\t%.1f\t%v\n", r.kind, r.load, r.find, r.rng, r.pref, r.queries)
	}
	w.Flush()
}

func bench(kind core.Kind) result {
	cfg := config.Default()
	cfg.Index.Kind = string(kind)
	cfg.Index.Degree = degree
	engine := core.NewEngine(cfg, nil)

	gen := workload.NewGenerator(randSeed)
	records := gen.Records(nRecords, sequential)

	start := time.Now()
	for _, r := range records {
		engine.InsertRecord(r)
	}
	res := result{kind: kind, load: time.Since(start)}

	var findCmp, rangeCmp, prefixCmp int
	start = time.Now()
	for i := 0; i < nQueries; i++ {
		_, _, c := engine.FindByID(int64(1 + gen.Intn(nRecords)))
		findCmp += c

		lo := int64(1 + gen.Intn(nRecords))
		_, c = engine.RangeByID(lo, lo+50)
		rangeCmp += c

		_, c = engine.PrefixByLast(gen.LastPrefix())
		prefixCmp += c
	}
	res.queries = time.Since(start)

	q := float64(max(nQueries, 1))
	res.find = float64(findCmp) / q
	res.rng = float64(rangeCmp) / q
	res.pref = float64(prefixCmp) / q
	return res
}
