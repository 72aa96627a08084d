// Package mediatypes provides shared type definitions for media file
// classification across the media catalog.
//
// This package exists as a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains primitive types, constants,
// and pure utility functions with no external dependencies beyond the standard library.
//
// # Media Types
//
// Every catalogued file is classified into one of:
//
//	mediatypes.MediaTypeImage   // jpg, jpeg, png, webp, bmp, heic, heif, tiff, tif
//	mediatypes.MediaTypeGif     // gif
//	mediatypes.MediaTypeVideo   // mp4, mov, mkv, webm, avi, m4v
//	mediatypes.MediaTypeAudio   // mp3, wav, flac, aac, ogg
//	mediatypes.MediaTypePDF     // pdf
//	mediatypes.MediaTypeUnknown // anything else
//
// Unlike a viewer, the catalog keeps unknown files: they are still tagged and
// searchable, they just carry the unknown type.
//
// # Extension Detection
//
// Lookups are case-insensitive:
//
//	mediatypes.DetectFromPath("clips/skate.MOV") // MediaTypeVideo
//	mediatypes.GetMediaType(".JPG")              // MediaTypeImage
//
// # MIME Types
//
//	mediatypes.GetMimeType(".flac") // "audio/flac"
package mediatypes
