package mediatypes

import (
	"path/filepath"
	"strings"
)

// MediaType represents the detected kind of a catalogued file.
type MediaType string

const (
	// MediaTypeImage represents a still image.
	MediaTypeImage MediaType = "image"
	// MediaTypeGif represents an (possibly animated) GIF.
	MediaTypeGif MediaType = "gif"
	// MediaTypeVideo represents a video file.
	MediaTypeVideo MediaType = "video"
	// MediaTypeAudio represents an audio file.
	MediaTypeAudio MediaType = "audio"
	// MediaTypePDF represents a PDF document.
	MediaTypePDF MediaType = "pdf"
	// MediaTypeUnknown represents an unrecognized extension.
	MediaTypeUnknown MediaType = "unknown"
)

// AllMediaTypes lists every media type in a stable order.
var AllMediaTypes = []MediaType{
	MediaTypeImage,
	MediaTypeGif,
	MediaTypeVideo,
	MediaTypeAudio,
	MediaTypePDF,
	MediaTypeUnknown,
}

// extensionTypes maps lowercase extensions (with leading dot) to media types.
var extensionTypes = map[string]MediaType{
	// Images
	".jpg":  MediaTypeImage,
	".jpeg": MediaTypeImage,
	".png":  MediaTypeImage,
	".webp": MediaTypeImage,
	".bmp":  MediaTypeImage,
	".heic": MediaTypeImage,
	".heif": MediaTypeImage,
	".tiff": MediaTypeImage,
	".tif":  MediaTypeImage,

	".gif": MediaTypeGif,

	// Videos
	".mp4":  MediaTypeVideo,
	".mov":  MediaTypeVideo,
	".mkv":  MediaTypeVideo,
	".webm": MediaTypeVideo,
	".avi":  MediaTypeVideo,
	".m4v":  MediaTypeVideo,

	// Audio
	".mp3":  MediaTypeAudio,
	".wav":  MediaTypeAudio,
	".flac": MediaTypeAudio,
	".aac":  MediaTypeAudio,
	".ogg":  MediaTypeAudio,

	".pdf": MediaTypePDF,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".heic": "image/heic",
	".heif": "image/heif",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".m4v":  "video/x-m4v",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".pdf":  "application/pdf",
}

// GetMediaType returns the MediaType for a given file extension.
// The lookup is case-insensitive and accepts the extension with or without
// its leading dot. Returns MediaTypeUnknown if the extension is not recognized.
func GetMediaType(ext string) MediaType {
	if t, ok := extensionTypes[normalizeExt(ext)]; ok {
		return t
	}
	return MediaTypeUnknown
}

// DetectFromPath infers the media type from the final extension of a path.
func DetectFromPath(path string) MediaType {
	return GetMediaType(filepath.Ext(path))
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[normalizeExt(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsVisual reports whether the type can carry a thumbnail.
func (t MediaType) IsVisual() bool {
	return t == MediaTypeImage || t == MediaTypeGif || t == MediaTypeVideo
}

// IsValid reports whether t is one of the known media types.
func (t MediaType) IsValid() bool {
	for _, known := range AllMediaTypes {
		if t == known {
			return true
		}
	}
	return false
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
