// Package tags derives searchable tags from media filenames.
//
// A filename such as
//
//	sunset_coast+location-okinawa_rating-5.png
//
// parses into the simple tags "sunset" and "coast" and the key/value tags
// "location=okinawa" and "rating=5". Parsing never fails: tokens that cannot
// be classified are returned separately so callers can report or ignore them.
package tags
