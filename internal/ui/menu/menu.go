// Package menu is the interactive terminal surface: the same natal and
// synastry flows as the bot, driven from stdin, with wheel images saved to
// disk.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/domain/birth"
	"github.com/astroluna/astroluna/internal/interfaces/render"
)

var errExit = errors.New("exit")

// Menu drives the interactive session.
type Menu struct {
	charts *chart.Service
	wheel  *render.Wheel
	in     *bufio.Scanner
	out    io.Writer
	outDir string
}

// Option adjusts a Menu.
type Option func(*Menu)

// WithIO replaces stdin/stdout, mostly for tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(m *Menu) {
		m.in = bufio.NewScanner(in)
		m.out = out
	}
}

// WithOutputDir changes where wheel images are written.
func WithOutputDir(dir string) Option {
	return func(m *Menu) {
		m.outDir = dir
	}
}

// New builds a menu on stdin/stdout saving wheels under ./charts.
func New(charts *chart.Service, wheel *render.Wheel, opts ...Option) *Menu {
	m := &Menu{
		charts: charts,
		wheel:  wheel,
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
		outDir: "charts",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run loops the main menu until exit or end of input.
func (m *Menu) Run(ctx context.Context) error {
	log.Info().Msg("starting interactive menu")
	m.banner()

	for {
		choice, err := m.mainMenu()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := m.handle(ctx, choice); err != nil {
			if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}

	log.Info().Msg("menu session ended")
	return nil
}

func (m *Menu) banner() {
	fmt.Fprint(m.out, `
 ╔══════════════════════════════════════╗
 ║            🌙 AstroLuna              ║
 ║    Натальные карты и синастрия       ║
 ╚══════════════════════════════════════╝
`)
}

func (m *Menu) mainMenu() (string, error) {
	fmt.Fprint(m.out, `
 1. 🔮 Натальная карта
 2. 💞 Синастрия
 0. 🚪 Выход

Выбор: `)
	return m.readLine()
}

func (m *Menu) handle(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		if err := m.natal(ctx); err != nil {
			return err
		}
		m.waitForEnter()
		return nil
	case "2":
		if err := m.synastry(ctx); err != nil {
			return err
		}
		m.waitForEnter()
		return nil
	case "0", "q", "exit":
		return errExit
	default:
		fmt.Fprintln(m.out, "Нет такого пункта.")
		return nil
	}
}

func (m *Menu) natal(ctx context.Context) error {
	fmt.Fprintln(m.out, "\nВведи одну строку: Имя, ДД.MM.YYYY, HH:MM, Город")
	fmt.Fprint(m.out, "> ")
	line, err := m.readLine()
	if err != nil {
		return err
	}

	rec, err := birth.Parse(line)
	if err != nil {
		fmt.Fprintln(m.out, "⚠️ "+render.UserError(err))
		return nil
	}
	c, err := m.charts.Compute(ctx, rec)
	if err != nil {
		fmt.Fprintln(m.out, "⚠️ "+render.UserError(err))
		return nil
	}

	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, render.NatalReport(c))
	m.saveWheel("natal", func() ([]byte, error) { return m.wheel.Natal(c) })
	return nil
}

func (m *Menu) synastry(ctx context.Context) error {
	fmt.Fprintln(m.out, "\nДанные первого человека: Имя, ДД.MM.YYYY, HH:MM, Город")
	fmt.Fprint(m.out, "> ")
	lineA, err := m.readLine()
	if err != nil {
		return err
	}
	recA, err := birth.Parse(lineA)
	if err != nil {
		fmt.Fprintln(m.out, "⚠️ "+render.UserError(err))
		return nil
	}

	fmt.Fprintln(m.out, "Данные второго человека (в том же формате):")
	fmt.Fprint(m.out, "> ")
	lineB, err := m.readLine()
	if err != nil {
		return err
	}
	recB, err := birth.Parse(lineB)
	if err != nil {
		fmt.Fprintln(m.out, "⚠️ "+render.UserError(err))
		return nil
	}

	syn, err := m.charts.Synastry(ctx, recA, recB)
	if err != nil {
		fmt.Fprintln(m.out, "⚠️ "+render.UserError(err))
		return nil
	}

	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, render.SynastryReport(syn))
	m.saveWheel("synastry", func() ([]byte, error) { return m.wheel.Synastry(syn) })
	return nil
}

// saveWheel renders and writes one image; failures are reported but never
// end the session.
func (m *Menu) saveWheel(prefix string, renderFn func() ([]byte, error)) {
	png, err := renderFn()
	if err != nil {
		log.Warn().Err(err).Msg("wheel render failed")
		fmt.Fprintln(m.out, "⚠️ Не удалось нарисовать карту.")
		return
	}
	if err := os.MkdirAll(m.outDir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", m.outDir).Msg("cannot create output dir")
		return
	}
	name := fmt.Sprintf("%s_%s.png", prefix, time.Now().Format("20060102_150405"))
	path := filepath.Join(m.outDir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cannot write wheel image")
		return
	}
	fmt.Fprintf(m.out, "\n🖼 Карта сохранена: %s\n", path)
}

func (m *Menu) waitForEnter() {
	fmt.Fprint(m.out, "\nEnter — продолжить...")
	m.readLine()
}

func (m *Menu) readLine() (string, error) {
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}
