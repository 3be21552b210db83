package logo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const DefaultMaxBytes = 5 << 20

var (
	ErrUnreadable = errors.New("logo file unreadable")
	ErrNotImage   = errors.New("logo file is not an image")
	ErrTooLarge   = errors.New("logo file too large")
)

// File is what the file-picking collaborator hands over.
type File interface {
	Name() string
	// MediaType is the declared type; it may be empty.
	MediaType() string
	Open() (io.ReadCloser, error)
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Ingestor turns user files into Assets.
type Ingestor struct {
	// RequireImage rejects content that does not sniff as image/*.
	RequireImage bool
	// MaxBytes caps the file size; <= 0 means DefaultMaxBytes.
	MaxBytes int64
	Logger   Logger
}

func NewIngestor() *Ingestor {
	return &Ingestor{RequireImage: true, MaxBytes: DefaultMaxBytes}
}

// Ingest reads file on its own goroutine and calls done exactly once.
// Concurrent calls are independent; nothing is cancelled or queued.
func (in *Ingestor) Ingest(file File, done func(Asset, error)) {
	go func() {
		asset, err := in.Read(file)
		if in.Logger != nil {
			if err != nil {
				in.Logger.Errorf("logo", "ingest %q failed: %v", nameOf(file), err)
			} else {
				in.Logger.Infof("logo", "ingested %q (%s, %dx%d)", nameOf(file), asset.MediaType, asset.Width, asset.Height)
			}
		}
		if done != nil {
			done(asset, err)
		}
	}()
}

// Read is the synchronous body of Ingest.
func (in *Ingestor) Read(file File) (Asset, error) {
	if file == nil {
		return Asset{}, fmt.Errorf("%w: no file", ErrUnreadable)
	}
	rc, err := file.Open()
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() { _ = rc.Close() }()

	limit := in.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if int64(len(data)) > limit {
		return Asset{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	if len(data) == 0 {
		return Asset{}, fmt.Errorf("%w: empty file", ErrUnreadable)
	}

	sniffed := baseType(mimetype.Detect(data).String())
	if in.RequireImage && !isImageType(sniffed) {
		return Asset{}, fmt.Errorf("%w: detected %s", ErrNotImage, sniffed)
	}

	mediaType := baseType(file.MediaType())
	if !isImageType(mediaType) {
		mediaType = sniffed
	}

	asset := Asset{DataURI: EncodeDataURI(mediaType, data), MediaType: mediaType}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		asset.Width = cfg.Width
		asset.Height = cfg.Height
	}
	return asset, nil
}

func baseType(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(mediaType)
	}
	return parsed
}

func isImageType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

func nameOf(file File) string {
	if file == nil {
		return ""
	}
	return file.Name()
}

// BytesFile is an in-memory File, used for uploads that are already buffered.
type BytesFile struct {
	Filename string
	Type     string
	Data     []byte
	// Err, when set, is returned by Open.
	Err error
}

func (f BytesFile) Name() string      { return f.Filename }
func (f BytesFile) MediaType() string { return f.Type }

func (f BytesFile) Open() (io.ReadCloser, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// ReaderFile wraps a stream; it can be opened once.
type ReaderFile struct {
	Filename string
	Type     string
	Reader   io.Reader
}

func (f *ReaderFile) Name() string      { return f.Filename }
func (f *ReaderFile) MediaType() string { return f.Type }

func (f *ReaderFile) Open() (io.ReadCloser, error) {
	if f.Reader == nil {
		return nil, errors.New("stream already consumed")
	}
	r := f.Reader
	f.Reader = nil
	if rc, ok := r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r), nil
}

// PathFile is a File on the local filesystem. The media type is guessed from the extension.
type PathFile string

func (p PathFile) Name() string { return filepath.Base(string(p)) }

func (p PathFile) MediaType() string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(string(p))))
}

func (p PathFile) Open() (io.ReadCloser, error) { return os.Open(string(p)) }
