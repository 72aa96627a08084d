package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"media-catalog/internal/scanner"
	"media-catalog/internal/search"
	"media-catalog/internal/snapshot"
	"media-catalog/internal/tags"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

func main() {
	// Create a context that cancels on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := newOutput(os.Stdout)
	os.Exit(run(ctx, os.Args[1:], out, os.Stderr))
}

func run(ctx context.Context, args []string, out *output, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "parse":
		err = runParse(args[1:], out)
	case "scan":
		err = runScan(ctx, args[1:], out, stderr)
	case "search":
		err = runSearch(args[1:], out, stderr)
	case "help", "-h", "--help":
		printUsage(out.w)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: catalogctl <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  parse <filename...>    Show tags derived from filenames")
	fmt.Fprintln(w, "  scan <root>            Scan a media root")
	fmt.Fprintln(w, "  search --cache <dir>   Query a persisted catalog")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'catalogctl <command> -h' for command flags.")
}

func runParse(args []string, out *output) error {
	if len(args) == 0 {
		fmt.Fprintln(out.w, "Usage: catalogctl parse <filename...>")
		return errUsage
	}

	for i, name := range args {
		if i > 0 {
			fmt.Fprintln(out.w)
		}
		result := tags.Parse(name)
		fmt.Fprintln(out.w, out.heading(name))

		if len(result.Tags) == 0 {
			fmt.Fprintln(out.w, "  (no tags)")
		}
		for _, tag := range result.Tags {
			fmt.Fprintf(out.w, "  %-9s %s\n", tag.Kind, tag.Normalized)
		}
		for _, token := range result.InvalidTokens {
			fmt.Fprintf(out.w, "  %-9s %q\n", "invalid", token)
		}

		attrs := tags.Attributes(result.Tags)
		if len(attrs) > 0 {
			keys := make([]string, 0, len(attrs))
			for k := range attrs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, k+"="+attrs[k])
			}
			fmt.Fprintf(out.w, "  attributes: %s\n", strings.Join(pairs, ", "))
		}
	}
	return nil
}

func runScan(ctx context.Context, args []string, out *output, stderr io.Writer) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print every record as JSON")
	mode := fs.String("mode", string(scanner.ModeFilename), "tag mode: filename or raw")
	hidden := fs.Bool("hidden", false, "include hidden files and directories")
	probe := fs.Bool("probe", false, "decode image headers for dimensions")
	hash := fs.Bool("hash", false, "hash file contents")
	if err := fs.Parse(args); err != nil {
		// flag has already reported the problem
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: catalogctl scan [flags] <root>")
		return errUsage
	}

	scanMode, err := scanner.ParseMode(*mode)
	if err != nil {
		return err
	}
	opts := scanner.DefaultOptions()
	opts.Mode = scanMode
	opts.IncludeHidden = *hidden
	opts.ProbeDimensions = *probe
	opts.HashContent = *hash

	start := time.Now()
	records, err := scanner.New(fs.Arg(0), opts).Scan(ctx)
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(out.w, records)
	}
	out.scanSummary(fs.Arg(0), records, time.Since(start))
	return nil
}

// attrFlags collects repeated --attr name=v1,v2 values.
type attrFlags []string

func (a *attrFlags) String() string {
	return strings.Join(*a, " ")
}

func (a *attrFlags) Set(value string) error {
	name, values, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("attribute filter must look like name=v1,v2, got %q", value)
	}
	*a = append(*a, strings.TrimSpace(name)+"="+values)
	return nil
}

func runSearch(args []string, out *output, stderr io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cacheDir := fs.String("cache", "", "cache directory holding index.json (required)")
	tagList := fs.String("tags", "", "comma separated tags that must all be present")
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", search.DefaultPageSize, "results per page")
	asJSON := fs.Bool("json", false, "print the result page as JSON")
	var attrs attrFlags
	fs.Var(&attrs, "attr", "attribute filter name=v1,v2 (repeatable)")
	if err := fs.Parse(args); err != nil {
		// flag has already reported the problem
		return errUsage
	}
	if *cacheDir == "" {
		fmt.Fprintln(stderr, "Usage: catalogctl search --cache <dir> [flags]")
		return errUsage
	}

	query, err := search.ParseParams(searchValues(*tagList, attrs, *page, *pageSize))
	if err != nil {
		return err
	}

	store := snapshot.NewStore(*cacheDir)
	snap, err := store.Load()
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no catalog at %s", store.Path())
	}

	result := search.Search(snap, query)
	if *asJSON {
		return writeJSON(out.w, result)
	}
	out.searchResult(result)
	return nil
}

// searchValues renders CLI flags as the query parameters the HTTP API
// accepts so both share validation.
func searchValues(tagList string, attrs attrFlags, page, pageSize int) url.Values {
	values := url.Values{}
	if tagList != "" {
		values.Set("tags", tagList)
	}
	for _, attr := range attrs {
		name, list, _ := strings.Cut(attr, "=")
		values.Add("attributes["+name+"]", list)
	}
	values.Set("page", fmt.Sprint(page))
	values.Set("pageSize", fmt.Sprint(pageSize))
	return values
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sizeLabel(n int64) string {
	if n < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n)) //nolint:gosec // n is non-negative above
}
