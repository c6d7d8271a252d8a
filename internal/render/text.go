package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	white     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	textColor = color.RGBA{R: 33, G: 33, B: 33, A: 255}
	faintGray = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// drawText draws text centred on c, scaled up from the 7x13 bitmap face.
func drawText(dst draw.Image, text string, c image.Point, scale int, col color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if scale < 1 {
		scale = 1
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Face: face}
	tw := dr.MeasureString(text).Ceil()
	th := face.Metrics().Height.Ceil()

	src := image.NewRGBA(image.Rect(0, 0, tw, th))
	dr.Dst = src
	dr.Src = image.NewUniform(col)
	dr.Dot = fixed.Point26_6{X: 0, Y: face.Metrics().Ascent}
	dr.DrawString(text)

	w, h := tw*scale, th*scale
	target := image.Rect(c.X-w/2, c.Y-h/2, c.X-w/2+w, c.Y-h/2+h)
	xdraw.NearestNeighbor.Scale(dst, target, src, src.Bounds(), draw.Over, nil)
}

// fill paints r with a solid colour.
func fill(dst draw.Image, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// outline draws a one pixel border just inside r.
func outline(dst draw.Image, r image.Rectangle, col color.Color) {
	u := image.NewUniform(col)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// placeholder stands in for a chart with nothing to plot.
func placeholder(title string, w, h, scale int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), white)
	outline(img, img.Bounds().Inset(4), faintGray)
	mid := image.Pt(w/2, h/2)
	drawText(img, title, image.Pt(mid.X, mid.Y-13*scale), scale, textColor)
	drawText(img, "no data", image.Pt(mid.X, mid.Y+13*scale), scale, faintGray)
	return img
}
