package images

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Thumbnail scales src down so it fits within maxW x maxH preserving aspect
// ratio, using approximate bi-linear filtering. If the source already fits,
// a plain copy is returned; the result never aliases src.
func Thumbnail(src *image.RGBA, maxW, maxH int) *image.RGBA {
	if src == nil {
		return nil
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
		return dst
	}
	ratioW := float64(maxW) / float64(w)
	ratioH := float64(maxH) / float64(h)
	ratio := ratioW
	if ratioH < ratio {
		ratio = ratioH
	}
	newW := int(float64(w)*ratio + 0.5)
	newH := int(float64(h)*ratio + 0.5)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// Strip lays thumbnails of the given frames side by side on a single
// contact-sheet image, for scrub-bar previews. Each cell is cellW x cellH;
// frames are fitted inside their cell and centered.
func Strip(frames []*image.RGBA, cellW, cellH int) image.Image {
	if len(frames) == 0 {
		return nil
	}
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}
	sheet := imaging.New(cellW*len(frames), cellH, color.Transparent)
	for i, f := range frames {
		if f == nil {
			continue
		}
		thumb := Thumbnail(f, cellW, cellH)
		x := i*cellW + (cellW-thumb.Bounds().Dx())/2
		y := (cellH - thumb.Bounds().Dy()) / 2
		sheet = imaging.Paste(sheet, thumb, image.Pt(x, y))
	}
	return sheet
}
