package image

import (
	"image"

	"github.com/nfnt/resize"
)

// минимальный размер шаблона после уменьшения, при котором грубый проход еще осмыслен
const minCoarseSide = 4

// matchCoarseToFine ищет шаблон в уменьшенных в scale раз копиях, затем уточняет
// положение на полном разрешении в окне radius вокруг грубого максимума.
// ok=false, если уменьшение невозможно и нужен полный перебор.
func matchCoarseToFine(frame, tmpl *image.RGBA, scale, radius int) (image.Point, float64, bool) {
	tw, th := tmpl.Rect.Dx()/scale, tmpl.Rect.Dy()/scale
	if scale <= 1 || tw < minCoarseSide || th < minCoarseSide {
		return image.Point{}, 0, false
	}
	fw, fh := frame.Rect.Dx()/scale, frame.Rect.Dy()/scale

	smallFrame := ToRGBA(resize.Resize(uint(fw), uint(fh), frame, resize.Bilinear))
	smallTmpl := ToRGBA(resize.Resize(uint(tw), uint(th), tmpl, resize.Bilinear))
	if !fits(smallFrame, smallTmpl) {
		return image.Point{}, 0, false
	}

	coarse := newMatcher(smallFrame, smallTmpl)
	cp, _ := coarse.search(coarse.positions())

	fine := newMatcher(frame, tmpl)
	pad := radius + scale
	area := image.Rect(cp.X*scale-pad, cp.Y*scale-pad, cp.X*scale+pad+1, cp.Y*scale+pad+1).
		Intersect(fine.positions())
	if area.Empty() {
		return image.Point{}, 0, false
	}
	p, s := fine.search(area)
	return p, s, true
}
