package scanner

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-catalog/internal/mediatypes"
	"media-catalog/internal/snapshot"
)

func writeFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writePNG(t *testing.T, root, rel string, w, h int) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func findRecord(t *testing.T, records []snapshot.MediaRecord, rel string) snapshot.MediaRecord {
	t.Helper()
	for _, r := range records {
		if r.RelativePath == rel {
			return r
		}
	}
	t.Fatalf("record %s not found", rel)
	return snapshot.MediaRecord{}
}

func TestScanBuildsRecords(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "trips/sunset_coast+location-okinawa_rating-5.png", []byte("pngdata"))
	writeFile(t, root, "clips/intro.MP4", []byte("0123456789"))
	writeFile(t, root, "notes.txt", nil)

	records, err := New(root, Options{NumWorkers: 2}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	photo := findRecord(t, records, "trips/sunset_coast+location-okinawa_rating-5.png")
	assert.Equal(t, RecordID("trips/sunset_coast+location-okinawa_rating-5.png"), photo.ID)
	assert.Len(t, photo.ID, 40)
	assert.Equal(t, mediatypes.MediaTypeImage, photo.MediaType)
	assert.EqualValues(t, 7, photo.Filesize)
	assert.Equal(t, map[string]string{"location": "okinawa", "rating": "5"}, photo.Attributes)
	require.Len(t, photo.Tags, 4)
	assert.Equal(t, "sunset", photo.Tags[0].Normalized)
	assert.Equal(t, "rating=5", photo.Tags[3].Normalized)
	assert.Equal(t, "/api/v1/media/"+photo.ID+"/thumbnail", photo.ThumbnailPath)
	assert.False(t, photo.IndexedAt.IsZero())

	clip := findRecord(t, records, "clips/intro.MP4")
	assert.Equal(t, mediatypes.MediaTypeVideo, clip.MediaType)

	notes := findRecord(t, records, "notes.txt")
	assert.Equal(t, mediatypes.MediaTypeUnknown, notes.MediaType)
	assert.Empty(t, notes.ThumbnailPath)
	assert.NotNil(t, notes.Attributes)
}

func TestScanSortsByRelativePath(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"z.jpg", "a/b.jpg", "m.png", "a/a.gif", "b/c/d.mp3"} {
		writeFile(t, root, rel, []byte("x"))
	}

	records, err := New(root, Options{NumWorkers: 4}).Scan(context.Background())
	require.NoError(t, err)

	var paths []string
	for _, r := range records {
		paths = append(paths, r.RelativePath)
	}
	assert.Equal(t, []string{"a/a.gif", "a/b.jpg", "b/c/d.mp3", "m.png", "z.jpg"}, paths)
}

func TestScanIDsStableAcrossRescans(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "one.jpg", []byte("a"))
	writeFile(t, root, "two.jpg", []byte("b"))

	s := New(root, Options{})
	first, err := s.Scan(context.Background())
	require.NoError(t, err)

	writeFile(t, root, "one.jpg", []byte("changed content"))
	second, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestScanSkipsHiddenByDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "visible.jpg", []byte("x"))
	writeFile(t, root, ".hidden.jpg", []byte("x"))
	writeFile(t, root, ".thumbs/cached.jpg", []byte("x"))

	records, err := New(root, Options{}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "visible.jpg", records[0].RelativePath)

	all, err := New(root, Options{IncludeHidden: true}).Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestScanRawModeLeavesTagsEmpty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "beach_rating-5.jpg", []byte("x"))

	records, err := New(root, Options{Mode: ModeRaw}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Tags)
	assert.Empty(t, records[0].Attributes)
}

func TestScanEmptyRoot(t *testing.T) {
	records, err := New(t.TempDir(), Options{}).Scan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestScanRootNotFound(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), Options{}).Scan(context.Background())
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestScanRootIsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "file.jpg", []byte("x"))
	_, err := New(path, Options{}).Scan(context.Background())
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestScanSymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	writeFile(t, target, "red_car.jpg", []byte("x"))
	writeFile(t, target, "trips/beach.mp4", []byte("yy"))

	link := filepath.Join(t.TempDir(), "media")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	direct, err := New(target, Options{}).Scan(context.Background())
	require.NoError(t, err)
	linked, err := New(link, Options{}).Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, linked, 2)
	for i := range direct {
		assert.Equal(t, direct[i].RelativePath, linked[i].RelativePath)
		assert.Equal(t, direct[i].ID, linked[i].ID, "ids do not depend on how the root is reached")
	}
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(root, Options{}).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type countingBackpressure struct {
	calls atomic.Int32
	err   error
}

func (b *countingBackpressure) WaitIfPaused(context.Context) error {
	b.calls.Add(1)
	return b.err
}

func TestScanConsultsBackpressure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg", []byte("x"))
	writeFile(t, root, "sub/b.jpg", []byte("y"))

	bp := &countingBackpressure{}
	records, err := New(root, Options{Backpressure: bp}).Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.EqualValues(t, 2, bp.calls.Load())
}

func TestScanBackpressureErrorFailsScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg", []byte("x"))

	bp := &countingBackpressure{err: context.DeadlineExceeded}
	_, err := New(root, Options{Backpressure: bp}).Scan(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScanProbeDimensions(t *testing.T) {
	root := t.TempDir()
	writePNG(t, root, "pixel.png", 12, 7)
	writeFile(t, root, "broken.png", []byte("not an image"))

	records, err := New(root, Options{ProbeDimensions: true}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	pixel := findRecord(t, records, "pixel.png")
	require.NotNil(t, pixel.Dimensions)
	assert.Equal(t, snapshot.Dimensions{Width: 12, Height: 7}, *pixel.Dimensions)

	broken := findRecord(t, records, "broken.png")
	assert.Nil(t, broken.Dimensions)
}

func TestScanHashContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.pdf", []byte("hello"))

	records, err := New(root, Options{HashContent: true}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Hash, 16)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64String("hello")), records[0].Hash)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: ModeFilename},
		{input: "filename", want: ModeFilename},
		{input: " RAW ", want: ModeRaw},
		{input: "exif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordIDIsSHA1Hex(t *testing.T) {
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", RecordID(""))
	assert.Equal(t, RecordID("a/b.jpg"), RecordID("a/b.jpg"))
	assert.NotEqual(t, RecordID("a/b.jpg"), RecordID("a/c.jpg"))
}
