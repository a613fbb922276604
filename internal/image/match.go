package image

import (
	"image"
	"math"
	"runtime"
	"sync"

	"golang.org/x/image/draw"
)

// ToRGBA приводит изображение к RGBA с началом координат в (0, 0)
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// integral суммы и суммы квадратов значений канала по прямоугольникам
type integral struct {
	stride int
	sum    [3][]int64
	sqsum  [3][]int64
}

func newIntegral(img *image.RGBA) *integral {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	in := &integral{stride: w + 1}
	for c := 0; c < 3; c++ {
		in.sum[c] = make([]int64, (w+1)*(h+1))
		in.sqsum[c] = make([]int64, (w+1)*(h+1))
	}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for c := 0; c < 3; c++ {
			var rowSum, rowSq int64
			for x := 0; x < w; x++ {
				v := int64(row[x*4+c])
				rowSum += v
				rowSq += v * v
				i := (y+1)*in.stride + x + 1
				in.sum[c][i] = in.sum[c][i-in.stride] + rowSum
				in.sqsum[c][i] = in.sqsum[c][i-in.stride] + rowSq
			}
		}
	}
	return in
}

func (in *integral) rect(table []int64, x, y, w, h int) int64 {
	a := y*in.stride + x
	b := y*in.stride + x + w
	c := (y+h)*in.stride + x
	d := (y+h)*in.stride + x + w
	return table[d] - table[b] - table[c] + table[a]
}

// matcher считает TM_CCOEFF_NORMED: нормированную корреляцию отклонений от среднего,
// суммированную по трем каналам. Все суммы целочисленные, поэтому совпадающее окно
// дает ровно 1.
type matcher struct {
	frame *image.RGBA
	tmpl  *image.RGBA
	in    *integral
	w, h  int
	n     float64
	tSum  [3]float64
	tNorm float64
}

func newMatcher(frame, tmpl *image.RGBA) *matcher {
	m := &matcher{
		frame: frame,
		tmpl:  tmpl,
		in:    newIntegral(frame),
		w:     tmpl.Rect.Dx(),
		h:     tmpl.Rect.Dy(),
	}
	m.n = float64(m.w * m.h)

	var sum, sq [3]int64
	for y := 0; y < m.h; y++ {
		row := tmpl.Pix[y*tmpl.Stride:]
		for x := 0; x < m.w; x++ {
			for c := 0; c < 3; c++ {
				v := int64(row[x*4+c])
				sum[c] += v
				sq[c] += v * v
			}
		}
	}
	for c := 0; c < 3; c++ {
		m.tSum[c] = float64(sum[c])
		m.tNorm += float64(sq[c]) - m.tSum[c]*m.tSum[c]/m.n
	}
	return m
}

// scoreAt оценка совпадения для левого верхнего угла шаблона в (x, y) кадра
func (m *matcher) scoreAt(x, y int) float64 {
	var cross [3]int64
	for ty := 0; ty < m.h; ty++ {
		frow := m.frame.Pix[(y+ty)*m.frame.Stride+x*4:]
		trow := m.tmpl.Pix[ty*m.tmpl.Stride:]
		for tx := 0; tx < m.w*4; tx += 4 {
			cross[0] += int64(frow[tx]) * int64(trow[tx])
			cross[1] += int64(frow[tx+1]) * int64(trow[tx+1])
			cross[2] += int64(frow[tx+2]) * int64(trow[tx+2])
		}
	}

	var num, wNorm float64
	for c := 0; c < 3; c++ {
		s := float64(m.in.rect(m.in.sum[c], x, y, m.w, m.h))
		sq := float64(m.in.rect(m.in.sqsum[c], x, y, m.w, m.h))
		num += float64(cross[c]) - m.tSum[c]*s/m.n
		wNorm += sq - s*s/m.n
	}

	den := math.Sqrt(math.Max(m.tNorm, 0) * math.Max(wNorm, 0))
	if den < 1e-9 {
		// однотонное окно или шаблон: корреляция не определена
		return 0
	}
	return math.Max(-1, math.Min(1, num/den))
}

// search перебирает левые верхние углы в area и возвращает лучший.
// При равных оценках выигрывает первый в порядке строк.
func (m *matcher) search(area image.Rectangle) (image.Point, float64) {
	rows := area.Dy()
	workers := runtime.NumCPU()
	if workers > rows {
		workers = rows
	}

	type best struct {
		p     image.Point
		score float64
		found bool
	}
	results := make([]best, workers)

	var wg sync.WaitGroup
	for wi := 0; wi < workers; wi++ {
		wg.Add(1)
		go func(wi int) {
			defer wg.Done()
			b := best{score: math.Inf(-1)}
			for y := area.Min.Y + wi; y < area.Max.Y; y += workers {
				for x := area.Min.X; x < area.Max.X; x++ {
					s := m.scoreAt(x, y)
					if !b.found || s > b.score || (s == b.score && before(image.Pt(x, y), b.p)) {
						b = best{p: image.Pt(x, y), score: s, found: true}
					}
				}
			}
			results[wi] = b
		}(wi)
	}
	wg.Wait()

	var out best
	for _, b := range results {
		if !b.found {
			continue
		}
		if !out.found || b.score > out.score || (b.score == out.score && before(b.p, out.p)) {
			out = b
		}
	}
	return out.p, out.score
}

func before(a, b image.Point) bool {
	return a.Y < b.Y || (a.Y == b.Y && a.X < b.X)
}

// positions допустимые левые верхние углы шаблона в кадре
func (m *matcher) positions() image.Rectangle {
	return image.Rect(0, 0, m.frame.Rect.Dx()-m.w+1, m.frame.Rect.Dy()-m.h+1)
}

// MatchTemplate ищет лучшее положение tmpl в frame полным перебором.
// ok=false, если шаблон пустой или больше кадра.
func MatchTemplate(frame, tmpl image.Image) (topLeft image.Point, score float64, ok bool) {
	f, t := ToRGBA(frame), ToRGBA(tmpl)
	if !fits(f, t) {
		return image.Point{}, 0, false
	}
	m := newMatcher(f, t)
	p, s := m.search(m.positions())
	return p, s, true
}

func fits(frame, tmpl *image.RGBA) bool {
	tw, th := tmpl.Rect.Dx(), tmpl.Rect.Dy()
	return tw > 0 && th > 0 && tw <= frame.Rect.Dx() && th <= frame.Rect.Dy()
}
