/*
Package workers sizes worker pools in containerized environments.

runtime.NumCPU reports the host's CPU count, while GOMAXPROCS follows the
container CPU limit in Go 1.19+. The helpers here derive pool sizes from
GOMAXPROCS so a scan on a 2-CPU pod does not start 64 stat workers.

	numWorkers := workers.ForIO(16) // 2 per CPU, at most 16

# Environment Variable Override

CATALOG_SCAN_WORKERS pins the worker count for every helper, still subject
to the caller's limit:

	env:
	- name: CATALOG_SCAN_WORKERS
	  value: "4"

Invalid, zero or negative values are ignored.
*/
package workers
