package menu

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/domain/astro"
	"github.com/astroluna/astroluna/internal/interfaces/render"
)

type fakeOracle struct {
	longs map[astro.Body]float64
	fail  map[astro.Body]bool
}

func (f *fakeOracle) Calc(_ context.Context, _ astro.JulianDay, body astro.Body) (any, error) {
	if f.fail[body] {
		return nil, fmt.Errorf("no data for %s", body)
	}
	return f.longs[body], nil
}

func uniformLongs() map[astro.Body]float64 {
	longs := make(map[astro.Body]float64)
	for i, b := range astro.Bodies {
		longs[b] = float64(i) * 40
	}
	return longs
}

func runMenu(t *testing.T, script string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer
	svc := chart.NewService(&fakeOracle{longs: uniformLongs()}, nil, nil)
	wheel := render.NewWheel(render.WheelConfig{Size: 200})
	m := New(svc, wheel, WithIO(strings.NewReader(script), &out), WithOutputDir(dir))

	require.NoError(t, m.Run(context.Background()))
	return out.String(), dir
}

func TestNatalSession(t *testing.T) {
	out, dir := runMenu(t, "1\nАнна, 01.05.1990, 14:30, Москва\n\n0\n")

	assert.Contains(t, out, "AstroLuna")
	assert.Contains(t, out, "🌟 *Натальная карта*")
	assert.Contains(t, out, "Анна")
	assert.Contains(t, out, "Карта сохранена")

	files, err := filepath.Glob(filepath.Join(dir, "natal_*.png"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestSynastrySession(t *testing.T) {
	script := "2\nАнна, 01.05.1990, 14:30, Москва\nБорис, 19.06.1988, 12:00, Лондон\n\n0\n"
	out, dir := runMenu(t, script)

	assert.Contains(t, out, "💞 Синастрия: Анна — Борис")
	assert.Contains(t, out, "Карта сохранена")

	files, err := filepath.Glob(filepath.Join(dir, "synastry_*.png"))
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestBadLineReportsAndContinues(t *testing.T) {
	out, dir := runMenu(t, "1\nмусор\n\n0\n")

	assert.Contains(t, out, "⚠️")
	assert.Contains(t, out, "Неверный формат. Используйте:")

	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	assert.Empty(t, files, "no image for a failed parse")
}

func TestUnknownChoice(t *testing.T) {
	out, _ := runMenu(t, "9\n0\n")
	assert.Contains(t, out, "Нет такого пункта.")
}

func TestEndOfInputStopsCleanly(t *testing.T) {
	out, _ := runMenu(t, "")
	assert.Contains(t, out, "Выбор:")
}
