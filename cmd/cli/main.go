package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"indexdb/pkg/client"
	"indexdb/pkg/common"
	"indexdb/pkg/query"

	"github.com/spf13/cobra"
)

const Prompt = "indexdb> "

var serverAddr string

func main() {
	root := &cobra.Command{
		Use:          "indexdb-cli",
		Short:        "Interactive shell for an indexdb server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl(serverAddr)
		},
	}
	root.Flags().StringVar(&serverAddr, "addr", "localhost:9090", "indexdb TCP server address")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func repl(addr string) error {
	fmt.Printf("indexdb CLI (Target: %s)\n", addr)
	fmt.Println("Connecting...")

	cli, err := client.Dial(addr)
	if err != nil {
		fmt.Println("Tip: Ensure the server is running (e.g. go run ./cmd/server).")
		return fmt.Errorf("connection failed: %w", err)
	}
	defer cli.Close()
	fmt.Println("Connected! Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "insert", "put":
			if len(parts) >= 2 && strings.EqualFold(parts[1], "into") {
				handleQuery(cli, line)
			} else {
				handleInsert(cli, parts)
			}
		case "find", "get":
			handleFind(cli, parts)
		case "del", "rm", "delete":
			if len(parts) >= 2 && strings.EqualFold(parts[1], "from") {
				handleQuery(cli, line)
			} else {
				handleDel(cli, parts)
			}
		case "range", "scan":
			handleRange(cli, parts)
		case "prefix":
			handlePrefix(cli, parts)
		case "select":
			handleQuery(cli, line)
		case "help":
			printHelp()
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		default:
			fmt.Printf("Unknown command: '%s'. Type 'help'.\n", cmd)
		}
	}
}

func handleInsert(cli *client.Client, parts []string) {
	if len(parts) < 4 {
		fmt.Println("Usage: insert <id> <first> <last> [major] [year] [gpa]")
		return
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Println("Error: id must be an integer (e.g., 1001)")
		return
	}
	rec := common.Record{ID: id, First: parts[2], Last: parts[3]}
	if len(parts) > 4 {
		rec.Major = parts[4]
	}
	if len(parts) > 5 {
		if rec.Year, err = strconv.Atoi(parts[5]); err != nil {
			fmt.Println("Error: year must be an integer")
			return
		}
	}
	if len(parts) > 6 {
		if rec.GPA, err = strconv.ParseFloat(parts[6], 64); err != nil {
			fmt.Println("Error: gpa must be a number")
			return
		}
	}

	start := time.Now()
	pos, err := cli.Insert(rec)
	duration := time.Since(start)

	if err != nil {
		fmt.Printf("Error: %v\n", err)
	} else {
		fmt.Printf("OK, heap position %d (%v)\n", pos, duration)
	}
}

func handleFind(cli *client.Client, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: find <id>")
		return
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Println("Error: id must be an integer")
		return
	}

	start := time.Now()
	rec, found, cmp, err := cli.Find(id)
	duration := time.Since(start)

	switch {
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	case !found:
		fmt.Printf("Not found [%d comparisons] (%v)\n", cmp, duration)
	default:
		fmt.Printf("%s [%d comparisons] (%v)\n", rec.String(), cmp, duration)
	}
}

func handleDel(cli *client.Client, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: del <id>")
		return
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Println("Error: id must be an integer")
		return
	}

	start := time.Now()
	deleted, err := cli.Delete(id)
	duration := time.Since(start)

	switch {
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	case !deleted:
		fmt.Printf("Not found (%v)\n", duration)
	default:
		fmt.Printf("Deleted (%v)\n", duration)
	}
}

func handleRange(cli *client.Client, parts []string) {
	if len(parts) < 3 {
		fmt.Println("Usage: range <lo> <hi>")
		return
	}

	lo, err1 := strconv.ParseInt(parts[1], 10, 64)
	hi, err2 := strconv.ParseInt(parts[2], 10, 64)
	if err1 != nil || err2 != nil {
		fmt.Println("Error: bounds must be integers")
		return
	}

	fmt.Printf("Scanning ids [%d, %d]...\n", lo, hi)
	start := time.Now()
	records, cmp, err := cli.Range(lo, hi)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printRecords(records, cmp, time.Since(start))
}

func handlePrefix(cli *client.Client, parts []string) {
	prefix := ""
	if len(parts) > 1 {
		prefix = parts[1]
	}

	start := time.Now()
	records, cmp, err := cli.Prefix(prefix)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printRecords(records, cmp, time.Since(start))
}

func handleQuery(cli *client.Client, line string) {
	start := time.Now()
	res, err := cli.Query(line)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	stmt, _ := query.Parse(line)
	if stmt != nil {
		switch stmt.Kind {
		case query.Delete:
			fmt.Printf("deleted=%v (%v)\n", res.Deleted, time.Since(start))
			return
		case query.Insert:
			fmt.Printf("OK, heap position %d (%v)\n", res.Position, time.Since(start))
			return
		}
	}
	printRecords(res.Records, res.Comparisons, time.Since(start))
}

func printRecords(records []common.Record, cmp int, d time.Duration) {
	fmt.Printf("Found %d records [%d comparisons] (%v):\n", len(records), cmp, d)
	for i, rec := range records {
		if i >= 20 {
			fmt.Printf("... and %d more\n", len(records)-20)
			break
		}
		fmt.Printf("  %s\n", rec.String())
	}
}

func printHelp() {
	fmt.Println(`
Commands:
  insert <id> <first> <last> [major] [year] [gpa]   Append a record
  find <id>                                         Point lookup by id
  del <id>                                          Soft-delete by id
  range <lo> <hi>                                   Id range (inclusive)
  prefix <p>                                        Last names starting with p (case-insensitive)
  SELECT * FROM records [WHERE ...] [LIMIT n]       Query
  DELETE FROM records WHERE id = n                  Query
  INSERT INTO records VALUES (id, 'first', 'last')  Query
  exit                                              Exit CLI
	`)
}
