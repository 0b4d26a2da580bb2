package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

func TestAvatarInitialsIsSquarePNG(t *testing.T) {
	svc, err := NewAvatarService(logger.Nop(), AvatarConfig{})
	require.NoError(t, err)

	raw, err := svc.Initials("Asha Verma")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, avatarSize, avatarSize), img.Bounds())

	again, err := svc.Initials("asha verma")
	require.NoError(t, err)
	decoded, _ := png.Decode(bytes.NewReader(again))
	assert.Equal(t, img.At(0, 0), decoded.At(0, 0), "background is stable per name")
}

func TestAvatarFromImageCropsToSquare(t *testing.T) {
	svc, err := NewAvatarService(logger.Nop(), AvatarConfig{})
	require.NoError(t, err)

	src := image.NewRGBA(image.Rect(0, 0, 300, 100))
	for x := 0; x < 300; x++ {
		for y := 0; y < 100; y++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, src))

	out, err := svc.FromImage(in.Bytes())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, avatarSize, img.Bounds().Dx())
	assert.Equal(t, avatarSize, img.Bounds().Dy())

	_, err = svc.FromImage([]byte("not an image"))
	assert.Error(t, err)
}

func TestComputeInitials(t *testing.T) {
	assert.Equal(t, "AV", computeInitials("asha  verma"))
	assert.Equal(t, "AK", computeInitials("Asha Rani Kumar"))
	assert.Equal(t, "R", computeInitials("ravi"))
	assert.Equal(t, "?", computeInitials("  "))
}
