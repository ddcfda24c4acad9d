package transform

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// FlipHorizontal mirrors src left to right. The result has the same
// concrete type, color model and palette as src so no pixel is resampled.
func FlipHorizontal(src image.Image) image.Image {
	return mirror(src, true)
}

// FlipVertical mirrors src top to bottom, see FlipHorizontal.
func FlipVertical(src image.Image) image.Image {
	return mirror(src, false)
}

// Flip mirrors src left to right then top to bottom, a 180 degree
// rotation around its center.
func Flip(src image.Image) image.Image {
	return FlipVertical(FlipHorizontal(src))
}

func mirror(img image.Image, horizontal bool) image.Image {
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()

	switch src := img.(type) {
	case *image.RGBA:
		dst := image.NewRGBA(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 4, horizontal)
		return dst
	case *image.NRGBA:
		dst := image.NewNRGBA(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 4, horizontal)
		return dst
	case *image.RGBA64:
		dst := image.NewRGBA64(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 8, horizontal)
		return dst
	case *image.NRGBA64:
		dst := image.NewNRGBA64(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 8, horizontal)
		return dst
	case *image.Gray:
		dst := image.NewGray(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 1, horizontal)
		return dst
	case *image.Gray16:
		dst := image.NewGray16(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 2, horizontal)
		return dst
	case *image.Alpha:
		dst := image.NewAlpha(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 1, horizontal)
		return dst
	case *image.Alpha16:
		dst := image.NewAlpha16(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 2, horizontal)
		return dst
	case *image.CMYK:
		dst := image.NewCMYK(r)
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 4, horizontal)
		return dst
	case *image.Paletted:
		dst := image.NewPaletted(r, append(color.Palette(nil), src.Palette...))
		mirrorPix(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 1, horizontal)
		return dst
	case *image.YCbCr:
		dst := image.NewYCbCr(r, src.SubsampleRatio)
		mirrorYCbCr(dst, src, horizontal)
		return dst
	case *image.NYCbCrA:
		dst := image.NewNYCbCrA(r, src.SubsampleRatio)
		mirrorYCbCr(&dst.YCbCr, &src.YCbCr, horizontal)
		mirrorPix(dst.A, dst.AStride, src.A, src.AStride, w, h, 1, horizontal)
		return dst
	}

	// anything else goes through a 16 bit non-premultiplied canvas
	if horizontal {
		return affine(img, f64.Aff3{
			-1, 0, float64(r.Min.X + r.Max.X),
			0, 1, 0,
		})
	}
	return affine(img, f64.Aff3{
		1, 0, 0,
		0, -1, float64(r.Min.Y + r.Max.Y),
	})
}

// mirrorPix copies a w x h grid of bpp byte pixels from src to dst,
// reversing either the columns or the rows.
func mirrorPix(dst []byte, dstStride int, src []byte, srcStride, w, h, bpp int, horizontal bool) {
	n := w * bpp
	for y := 0; y < h; y++ {
		d := dst[y*dstStride : y*dstStride+n]

		if !horizontal {
			sy := (h - 1 - y) * srcStride
			copy(d, src[sy:sy+n])
			continue
		}

		s := src[y*srcStride : y*srcStride+n]
		for x := 0; x < w; x++ {
			sx := (w - 1 - x) * bpp
			copy(d[x*bpp:(x+1)*bpp], s[sx:sx+bpp])
		}
	}
}

// mirrorYCbCr keeps the luma exact and mirrors the subsampled chroma
// planes on their own grid.
func mirrorYCbCr(dst, src *image.YCbCr, horizontal bool) {
	r := src.Rect
	mirrorPix(dst.Y, dst.YStride, src.Y, src.YStride, r.Dx(), r.Dy(), 1, horizontal)

	if dst.CStride == 0 {
		return
	}

	cw, ch := dst.CStride, len(dst.Cb)/dst.CStride
	mirrorPix(dst.Cb, dst.CStride, src.Cb, src.CStride, cw, ch, 1, horizontal)
	mirrorPix(dst.Cr, dst.CStride, src.Cr, src.CStride, cw, ch, 1, horizontal)
}

func affine(src image.Image, s2d f64.Aff3) image.Image {
	dst := image.NewNRGBA64(src.Bounds())
	xdraw.NearestNeighbor.Transform(dst, s2d, src, src.Bounds(), xdraw.Src, nil)
	return dst
}
