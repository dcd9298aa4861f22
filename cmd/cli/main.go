package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"wbdata/internal/apiclient"
)

func main() {
	global := flag.NewFlagSet("wbdata", flag.ExitOnError)
	baseURL := global.String("api", envOr("WBDATA_API_URL", apiclient.DefaultBaseURL), "API base URL")
	timeout := global.Duration("timeout", 15*time.Second, "request timeout")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := apiclient.New(*baseURL, *timeout)

	var (
		out any
		err error
	)
	switch args[0] {
	case "countries":
		out, err = client.Countries(ctx)
	case "indicators":
		out, err = client.Indicators(ctx)
	case "country":
		fs := flag.NewFlagSet("country", flag.ExitOnError)
		indicator := fs.String("indicator", "", "indicator code filter")
		year := fs.String("year", "", "year filter")
		code, rest := positional(args[1:], "usage: wbdata country <code> [-indicator X] [-year Y]")
		_ = fs.Parse(rest)
		out, err = client.CountryData(ctx, code, *indicator, parseYear(*year))
	case "indicator":
		fs := flag.NewFlagSet("indicator", flag.ExitOnError)
		year := fs.String("year", "", "year filter")
		code, rest := positional(args[1:], "usage: wbdata indicator <code> [-year Y]")
		_ = fs.Parse(rest)
		out, err = client.IndicatorData(ctx, code, parseYear(*year))
	default:
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, apiclient.ErrNotFound) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", args[0], err)
	}
	printJSON(out)
}

// positional splits "<code> [flags]" so the code can come before the flags.
func positional(args []string, usage string) (string, []string) {
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		log.Fatal(usage)
	}
	return args[0], args[1:]
}

func parseYear(s string) *int {
	if s == "" {
		return nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid year %q", s)
	}
	return &y
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printUsage() {
	fmt.Println("wbdata [-api URL] <command> [args] [flags]")
	fmt.Println("commands:")
	fmt.Println("  countries")
	fmt.Println("  indicators")
	fmt.Println("  country <code> [-indicator X] [-year Y]")
	fmt.Println("  indicator <code> [-year Y]")
}
