package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestImageProcessor_Validate(t *testing.T) {
	p := NewImageProcessor()

	assert.NoError(t, p.ValidateImage(pngBytes(t, 10, 10)))
	assert.ErrorIs(t, p.ValidateImage([]byte("plain text")), ErrInvalidImage)

	p.MaxSize = 10
	assert.ErrorIs(t, p.ValidateImage(pngBytes(t, 10, 10)), ErrInvalidImage)
}

func TestImageProcessor_NormalizeShrinksLargeImages(t *testing.T) {
	p := NewImageProcessor()
	p.MaxDimension = 100

	out, err := p.Normalize(pngBytes(t, 400, 200))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestImageProcessor_NormalizeKeepsSmallImages(t *testing.T) {
	p := NewImageProcessor()

	out, err := p.Normalize(pngBytes(t, 40, 30))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "services/abc/0.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/services/abc/0.jpg", url)

	stored, err := os.ReadFile(filepath.Join(dir, "services", "abc", "0.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), stored)

	require.NoError(t, s.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, "services", "abc", "0.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice, or a foreign URL, is a no-op
	assert.NoError(t, s.Delete(context.Background(), url))
	assert.NoError(t, s.Delete(context.Background(), "https://cdn.example/x.jpg"))
}

func TestLocalStorage_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "up"), "/uploads")
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "../../escape.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "escape.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "up", "escape.jpg"))
	assert.NoError(t, err)
}

func TestLocalStorage_KeyOf(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	key, ok := s.KeyOf("/uploads/services/abc/0.jpg")
	assert.True(t, ok)
	assert.Equal(t, "services/abc/0.jpg", key)

	for _, url := range []string{
		"https://cdn.example/x.jpg",
		"/uploads/services/abc/../other/0.jpg",
		"/uploads//services/abc/0.jpg",
		"/uploads/",
	} {
		_, ok := s.KeyOf(url)
		assert.False(t, ok, url)
	}
}

func TestOwnedImages_KeepsOnlyTheServicePrefix(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	mine, other := uuid.New(), uuid.New()
	own := "/uploads/" + ServiceImageKey(mine)

	urls := []string{
		own,
		"/uploads/" + ServiceImageKey(other),
		"/uploads/" + ServiceImagePrefix(mine) + "../" + other.String() + "/x.jpg",
		"/uploads/services/legacy.jpg",
		"https://cdn.example/x.jpg",
	}

	assert.Equal(t, []string{own}, OwnedImages(s, mine, urls))
	assert.Nil(t, OwnedImages(nil, mine, urls))
}
