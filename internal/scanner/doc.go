/*
Package scanner walks a media root and builds one catalog record per regular
file.

The walk runs on the calling goroutine and feeds a bounded pool of workers
(sized by workers.ForIO) that stat each file, parse its name into tags and
optionally probe image dimensions or hash the content. A single collector
gathers the results.

Every scan is a full pass: records are rebuilt from disk each time and
returned sorted by relative path, so the catalog order does not depend on
the filesystem or on worker scheduling. Record ids are the SHA-1 of the
forward-slash relative path and survive content changes.

Entries that fail (permission denied, file removed mid-walk) are logged and
skipped. Only a missing root fails the scan, with ErrRootNotFound.
*/
package scanner
