package transcoder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // webp sources

	"trsi/internal/assets"
)

// ErrDecode is returned when a source image cannot be decoded.
var ErrDecode = errors.New("failed to decode source image")

// Size binds a rendition to its output width. Width 0 keeps the native size.
type Size struct {
	Rendition assets.Rendition
	Width     int
}

// DefaultSizes returns orig at native width plus card and post at the given widths.
func DefaultSizes(cardWidth, postWidth int) []Size {
	return []Size{
		{Rendition: assets.RenditionOrig},
		{Rendition: assets.RenditionCard, Width: cardWidth},
		{Rendition: assets.RenditionPost, Width: postWidth},
	}
}

// Outcome records the result of producing one rendition.
type Outcome struct {
	Err       error
	AssetID   string
	Source    string
	Dest      string
	Rendition assets.Rendition
	Bytes     int64
}

// OK reports whether the rendition was written.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Transcoder produces renditions of a source image.
type Transcoder struct {
	encoder Encoder
	sizes   []Size
}

// New creates a transcoder writing sizes with enc.
func New(enc Encoder, sizes []Size) *Transcoder {
	return &Transcoder{
		encoder: enc,
		sizes:   sizes,
	}
}

// Extension is the extension of every file this transcoder writes.
func (t *Transcoder) Extension() string {
	return t.encoder.Extension()
}

// Transcode decodes src once and writes every configured rendition under
// destRoot/<rendition>/<name>.<ext>, where name comes from the export file name
// of job. Renditions fail independently; the returned slice has one outcome
// per size, in size order.
func (t *Transcoder) Transcode(ctx context.Context, job Job, src, destRoot string) []Outcome {
	name := assets.DerivedName(job.FileName, t.encoder.Extension())
	outcomes := make([]Outcome, len(t.sizes))

	for i, size := range t.sizes {
		outcomes[i] = Outcome{
			AssetID:   job.AssetID,
			Source:    src,
			Rendition: size.Rendition,
			Dest:      filepath.Join(destRoot, string(size.Rendition), name),
		}
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		for i := range outcomes {
			outcomes[i].Err = fmt.Errorf("%w: %s: %w", ErrDecode, src, err)
		}

		return outcomes
	}

	for i, size := range t.sizes {
		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			continue
		}

		outcomes[i].Bytes, outcomes[i].Err = t.writeRendition(img, size, outcomes[i].Dest)
	}

	return outcomes
}

func (t *Transcoder) writeRendition(img image.Image, size Size, dest string) (int64, error) {
	if size.Width > 0 {
		img = imaging.Resize(img, size.Width, 0, imaging.Lanczos)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	counter := &countingWriter{w: tmp}
	buf := bufio.NewWriter(counter)

	err = t.encoder.Encode(buf, img)
	if err == nil {
		err = buf.Flush()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("encode %s: %w", dest, err)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("rename %s: %w", dest, err)
	}

	return counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
