// Package logging is the leveled printf logger shared by every catalog
// package.
//
// Messages carry a [DEBUG], [INFO], [WARN] or [ERROR] prefix; Fatal logs and
// exits. Printf bypasses the level filter and is used for access lines.
//
// The level starts from LOG_LEVEL, or DEBUG=true, and is replaced by the
// configured log_level through ParseLevel and SetLevel once configuration
// is loaded. Tests capture output with SetOutput.
package logging
