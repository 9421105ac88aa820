package tray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const iconSize = 32

// renderIcon draws two overlapping panes, the front one half transparent,
// with a "g" in the corner.
func renderIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	back := color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	front := color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0x90}
	outline := color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}

	fillRect(img, image.Rect(2, 2, 22, 22), back)
	strokeRect(img, image.Rect(2, 2, 22, 22), outline)
	fillRect(img, image.Rect(10, 10, 30, 30), front)
	strokeRect(img, image.Rect(10, 10, 30, 30), outline)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(outline),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(17, 25),
	}
	d.DrawString("g")
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// IconPNG returns the tray icon as PNG.
func IconPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, renderIcon()); err != nil {
		return nil, fmt.Errorf("encode tray icon: %w", err)
	}
	return buf.Bytes(), nil
}

// IconICO returns the tray icon as a single-image ICO container holding the
// PNG, which is what the Windows notification area expects.
func IconICO() ([]byte, error) {
	pngData, err := IconPNG()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	header := struct {
		Reserved uint16
		Type     uint16
		Count    uint16
	}{Type: 1, Count: 1}
	entry := struct {
		Width       uint8
		Height      uint8
		Colors      uint8
		Reserved    uint8
		Planes      uint16
		BitCount    uint16
		BytesInRes  uint32
		ImageOffset uint32
	}{
		Width:       iconSize,
		Height:      iconSize,
		Planes:      1,
		BitCount:    32,
		BytesInRes:  uint32(len(pngData)),
		ImageOffset: 6 + 16,
	}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
		return nil, err
	}
	buf.Write(pngData)
	return buf.Bytes(), nil
}
