package main

import (
	"fmt"
	"log"
	"time"

	"indexdb/pkg/client"
	"indexdb/pkg/common"
)

func main() {
	fmt.Println("Connecting to indexdb...")
	cli, err := client.Dial("localhost:9090")
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer cli.Close()

	rec := common.Record{ID: 10086, First: "Grace", Last: "Hopper", Major: "CS", Year: 4, GPA: 3.9}

	fmt.Printf("Inserting: %s\n", rec.String())
	start := time.Now()
	pos, err := cli.Insert(rec)
	if err != nil {
		log.Fatalf("Insert failed: %v", err)
	}
	fmt.Printf("Stored at heap position %d in %v\n", pos, time.Since(start))

	fmt.Printf("Reading id=%d...\n", rec.ID)
	start = time.Now()
	got, found, cmp, err := cli.Find(rec.ID)
	if err != nil {
		log.Fatalf("Find failed: %v", err)
	}
	if !found {
		log.Fatalf("id=%d not found", rec.ID)
	}
	fmt.Printf("Got %s after %d comparisons (in %v)\n", got.String(), cmp, time.Since(start))

	recs, cmp, err := cli.Prefix("hop")
	if err != nil {
		log.Fatalf("Prefix failed: %v", err)
	}
	fmt.Printf("Prefix 'hop' matched %d records after %d comparisons\n", len(recs), cmp)
}
