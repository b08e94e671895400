package assets

import (
	"path"

	"trsi/pkg/utils"
)

// Rendition names one derived size of a source image.
type Rendition string

// Renditions produced for every asset.
const (
	RenditionOrig Rendition = "orig"
	RenditionCard Rendition = "card"
	RenditionPost Rendition = "post"
)

// Renditions lists every rendition in production order.
var Renditions = []Rendition{RenditionOrig, RenditionCard, RenditionPost}

// DerivedName is the file name of every rendition of fileName: the original
// extension replaced by ext.
func DerivedName(fileName, ext string) string {
	return utils.SwapExtension(fileName, ext)
}

// PublicPath is the site-absolute URL path of a rendition, e.g.
// PublicPath("/img", RenditionCard, "a.jpg", "webp") == "/img/card/a.webp".
func PublicPath(prefix string, r Rendition, fileName, ext string) string {
	return path.Join("/", prefix, string(r), DerivedName(fileName, ext))
}
