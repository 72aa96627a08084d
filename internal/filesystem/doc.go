/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

# Purpose

Media roots are frequently NFS mounts. A scan that stats thousands of files can hit
ESTALE (stale file handle) when the server side changes mid-walk. This package wraps
os.Stat and os.Open with retry logic for that one error class.

# Usage

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}
	defer f.Close()

# Retry Behavior

The retry logic implements exponential backoff with the following defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Only NFS stale file handle errors (ESTALE) trigger retries. All other errors
fail immediately without retry attempts.

# Integration

The scanner reads file metadata through StatWithRetry and opens files for
dimension probing and content hashing through OpenWithRetry.
*/
package filesystem
