package services

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

const avatarSize = 512

var defaultAvatarColors = []string{"#1E88E5", "#43A047", "#F4511E", "#8E24AA", "#00897B", "#FB8C00", "#3949AB", "#D81B60"}

type AvatarConfig struct {
	// FontPath is a TTF file for the initials; empty uses the built-in bitmap face.
	FontPath string
	// ColorsPath is a JSON array of {R,G,B,A} backgrounds; empty uses the built-in palette.
	ColorsPath string
}

// AvatarService renders the square PNG avatars shown for teachers.
type AvatarService interface {
	// Initials draws the initials of name on a background picked deterministically from name.
	Initials(name string) ([]byte, error)
	// FromImage center-crops raw to a square and scales it to the avatar size.
	FromImage(raw []byte) ([]byte, error)
}

type avatarService struct {
	log      *logger.Logger
	bgColors []color.NRGBA
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, cfg AvatarConfig) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	bgColors := make([]color.NRGBA, 0, len(defaultAvatarColors))
	if strings.TrimSpace(cfg.ColorsPath) != "" {
		loaded, err := loadColorsFromFile(cfg.ColorsPath)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar colors: %w", err)
		}
		bgColors = loaded
	} else {
		for _, h := range defaultAvatarColors {
			c, err := parseHexColor(h)
			if err != nil {
				return nil, err
			}
			bgColors = append(bgColors, c)
		}
	}
	if len(bgColors) == 0 {
		return nil, fmt.Errorf("avatar colors list is empty")
	}

	var face font.Face
	if strings.TrimSpace(cfg.FontPath) != "" {
		serviceLog.Info("Loading avatar font", "font", cfg.FontPath)
		f, err := loadFontFace(cfg.FontPath, 206)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar font: %w", err)
		}
		face = f
	}

	return &avatarService{log: serviceLog, bgColors: bgColors, fontFace: face}, nil
}

func (as *avatarService) Initials(name string) ([]byte, error) {
	dc := gg.NewContext(avatarSize, avatarSize)

	dc.SetColor(as.pickColor(name))
	dc.DrawRectangle(0, 0, avatarSize, avatarSize)
	dc.Fill()

	if as.fontFace != nil {
		dc.SetFontFace(as.fontFace)
	}
	initials := computeInitials(name)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(initials, avatarSize/2, avatarSize/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (as *avatarService) FromImage(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContextForRGBA(dst)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (as *avatarService) pickColor(name string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return as.bgColors[int(h.Sum32()%uint32(len(as.bgColors)))]
}

func computeInitials(name string) string {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(firstRune(fields[0]))
	default:
		return strings.ToUpper(firstRune(fields[0]) + firstRune(fields[len(fields)-1]))
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}, nil
}

func loadColorsFromFile(jsonPath string) ([]color.NRGBA, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read file error: %w", err)
	}
	var colors []color.NRGBA
	if err := json.Unmarshal(data, &colors); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return colors, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
