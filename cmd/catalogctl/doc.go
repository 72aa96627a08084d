// Command catalogctl inspects media catalogs from the command line.
//
// Usage:
//
//	catalogctl <command> [flags] [args]
//
// Commands:
//
//	parse <filename...>
//	        Show the tags and attributes derived from each filename.
//
//	scan [--json] [--mode filename|raw] [--hidden] [--probe] [--hash] <root>
//	        Scan a media root and print a summary, or every record as JSON.
//
//	search --cache <dir> [--tags a,b] [--attr name=v1,v2] [--page N] [--page-size N] [--json]
//	        Query the snapshot persisted in a cache directory. --attr may be
//	        repeated.
//
// Sizes are humanized. When stdout is a terminal, tables are fitted to its
// width and headers are highlighted.
package main
