package rtf

import (
	"fmt"
	"image"

	"rtfgen/element"
	"rtfgen/utils/debug"
	"rtfgen/utils/images"
)

// ImageOptions control how pictures are embedded.
type ImageOptions struct {
	// ScaleFactor applies to natural image size, one pixel is one point.
	ScaleFactor float64
	JPEGQuality int
	Grayscale   bool
	// WrapBMP embeds BMP as metafile instead of converting it to PNG.
	WrapBMP bool
	// SVGWidth is rasterization width, 0 uses SVG own size.
	SVGWidth int
}

// DefaultImageOptions returns options used when nothing is configured.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{ScaleFactor: 1, JPEGQuality: 75, WrapBMP: true}
}

// pictureNode is embedded image, goal sizes are in twips.
type pictureNode struct {
	blip    string
	format  images.Format
	pixelsW int
	pixelsH int
	goalW   int
	goalH   int
	data    []byte
}

func (n *pictureNode) Write(e *Encoder) {
	e.Open()
	e.Word("pict")
	e.Word(n.blip)
	e.WordN("picw", n.pixelsW)
	e.WordN("pich", n.pixelsH)
	e.WordN("picwgoal", n.goalW)
	e.WordN("pichgoal", n.goalH)
	e.Hex(n.data)
	e.Close()
}

func (n *pictureNode) Dump(tw *debug.TreeWriter, depth int) {
	tw.Attrs(depth, "picture", "blip", n.blip, "source", n.format.String(), "picw", n.pixelsW, "pich", n.pixelsH, "goalw", n.goalW, "goalh", n.goalH)
	tw.Binary(depth+1, "data", n.data)
}

// embedImage prepares image payload in a form word processors understand.
// JPEG, PNG and WMF are embedded as is, BMP is wrapped into metafile,
// everything else is converted to PNG. maxWidth is in points.
func embedImage(img *element.Image, opts ImageOptions, maxWidth float64) (*pictureNode, error) {
	data, err := img.Bytes()
	if err != nil {
		return nil, err
	}

	n := &pictureNode{format: img.Info.Format, pixelsW: img.Info.Width, pixelsH: img.Info.Height}
	transform := images.Transform{Grayscale: opts.Grayscale}

	var raster image.Image
	switch img.Info.Format {
	case images.FormatJpeg:
		if !opts.Grayscale {
			n.blip, n.data = "jpegblip", data
			break
		}
		if raster, err = images.Decode(data); err != nil {
			return nil, err
		}
		if n.data, err = images.EncodeJPEG(transform.Apply(raster), opts.JPEGQuality, 96); err != nil {
			return nil, fmt.Errorf("unable to encode jpeg: %w", err)
		}
		n.blip, raster = "jpegblip", nil
	case images.FormatPng:
		if !opts.Grayscale {
			n.blip, n.data = "pngblip", data
			break
		}
		if raster, err = images.Decode(data); err != nil {
			return nil, err
		}
	case images.FormatWmf:
		n.blip, n.data = "wmetafile8", data
	case images.FormatBmp:
		if opts.WrapBMP && !opts.Grayscale {
			if n.data, err = images.WrapBMP(img.Info, data); err != nil {
				return nil, err
			}
			n.blip = "wmetafile8"
			break
		}
		if raster, err = images.Decode(data); err != nil {
			return nil, err
		}
	case images.FormatGif, images.FormatTiff, images.FormatWebp:
		if raster, err = images.Decode(data); err != nil {
			return nil, err
		}
	case images.FormatSvg:
		if raster, err = images.RasterizeSVGToImage(data, opts.SVGWidth); err != nil {
			return nil, fmt.Errorf("unable to rasterize svg: %w", err)
		}
		n.pixelsW, n.pixelsH = raster.Bounds().Dx(), raster.Bounds().Dy()
	case images.FormatCcitt:
		if img.CCITT == nil {
			return nil, fmt.Errorf("fax image without parameters: %w", ErrUnsupportedImage)
		}
		if raster, err = images.DecodeCCITT(data, img.Info.Width, img.Info.Height, *img.CCITT); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%s: %w", img.Info.Format, ErrUnsupportedImage)
	}

	if raster != nil {
		if n.data, err = images.EncodePNG(transform.Apply(raster)); err != nil {
			return nil, err
		}
		n.blip = "pngblip"
	}

	w, h := img.ScaledWidth(), img.ScaledHeight()
	if img.Geometry.Empty() && opts.ScaleFactor > 0 {
		w, h = w*opts.ScaleFactor, h*opts.ScaleFactor
	}
	if maxWidth > 0 && w > maxWidth {
		h, w = h*maxWidth/w, maxWidth
	}
	n.goalW, n.goalH = element.Twips(w), element.Twips(h)
	return n, nil
}
