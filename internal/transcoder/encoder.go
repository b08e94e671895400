// Package transcoder converts source images into the site's fixed set of renditions.
package transcoder

import (
	"image"
	"io"

	"github.com/chai2010/webp"
)

// Encoder writes an image in the target encoding.
type Encoder interface {
	// Extension is the file extension of the encoding, without the dot.
	Extension() string
	Encode(w io.Writer, img image.Image) error
}

// WebPEncoder encodes WebP images.
type WebPEncoder struct {
	Quality  float32
	Lossless bool
}

// NewWebPEncoder returns a lossy WebP encoder with the given quality (0-100).
func NewWebPEncoder(quality int) *WebPEncoder {
	return &WebPEncoder{Quality: float32(quality)}
}

// Extension implements Encoder.
func (e *WebPEncoder) Extension() string {
	return "webp"
}

// Encode implements Encoder.
func (e *WebPEncoder) Encode(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{
		Lossless: e.Lossless,
		Quality:  e.Quality,
	})
}
