package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"rowfold.dev/arrange"
	"rowfold.dev/arrange/internal"
)

func main() {
	file := flag.String("file", "", "The file to load condition records from (stdin if empty)")
	factor := flag.Int("factor", arrange.UnfoldFactor, "The unfold factor for the scaled total")

	timeout := flag.Duration("timeout", 1*time.Minute, "The timeout for the batch")

	profile := flag.Bool("profile", false, "Profile the counter")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Println("Error opening records file:", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			fmt.Println("Error creating profile file:", err)
			os.Exit(1)
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			fmt.Println("Error creating memory profile file:", err)
			os.Exit(1)
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Println("Error starting CPU profile:", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	specs, fails, err := internal.ReadRecords(ctx, in)
	if err != nil {
		fmt.Println("Error reading records:", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records (%d lines failed)\n", len(specs), len(fails))
	for _, fail := range fails {
		fmt.Println("  skipped:", fail)
	}

	totals, err := arrange.Aggregate(ctx, specs, *factor)
	if err != nil {
		fmt.Println("Error counting arrangements:", err)
		os.Exit(1)
	}

	fmt.Println("Total arrangements:", totals.Plain)
	fmt.Printf("Total arrangements (unfolded x%d): %d\n", *factor, totals.Unfolded)

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}
}
