package cmd

import (
	"fmt"
	"os"
)

const version = "0.2.0"

func Execute(args []string) {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "export":
		runExport(args[1:])
	case "add-taxonomy":
		runAddTaxonomy(args[1:])
	case "merge":
		runMerge(args[1:])
	case "normalize":
		runNormalize(args[1:])
	case "prepare-db":
		runPrepareDB(args[1:])
	case "fasta":
		runFasta(args[1:])
	case "-v", "--version", "version":
		fmt.Println("uflowkit " + version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "uflowkit - microbiome table export tools")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  uflowkit <command> [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  export        Export OTU table, FASTA and taxonomy to MicrobiomeAnalyst/phyloseq CSVs")
	fmt.Fprintln(os.Stderr, "  add-taxonomy  Append taxonomy columns to an OTU table")
	fmt.Fprintln(os.Stderr, "  merge         Join two-column count tables into one wide table")
	fmt.Fprintln(os.Stderr, "  normalize     Divide every OTU table cell by its column total")
	fmt.Fprintln(os.Stderr, "  prepare-db    Link or move a classifier database with the right suffix")
	fmt.Fprintln(os.Stderr, "  fasta         Check a FASTA file and re-emit it")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'uflowkit <command> -h' for command-specific options.")
}
