package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/domain/astro"
	"github.com/astroluna/astroluna/internal/domain/birth"
	"github.com/astroluna/astroluna/internal/interfaces/bot"
	httpapi "github.com/astroluna/astroluna/internal/interfaces/http"
	"github.com/astroluna/astroluna/internal/interfaces/render"
)

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long:  "Long-polls Telegram and answers natal chart and synastry requests.",
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}
	if app.cfg.Bot.Token == "" {
		return fmt.Errorf("bot token missing: set BOT_TOKEN or BOT_TOKEN_SYNASTRY, or bot.token in config")
	}
	log.Info().Str("source", app.cfg.Bot.TokenSource).Msg("using bot token")

	api, err := tgbotapi.NewBotAPI(app.cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	log.Info().Str("username", api.Self.UserName).Msg("authorized on telegram")

	b := bot.New(api, app.cfg.Bot, app.charts, app.wheel, app.metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("✅ AstroLuna Advanced запущен!")
	return b.Run(ctx)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serves natal chart, synastry, and wheel endpoints plus /health and /metrics.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}

	handlers := httpapi.NewHandlers(app.charts, app.wheel, app.buildGeocoder(), app.metrics)
	srv := httpapi.NewServer(app.cfg.Server, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart \"Имя, ДД.MM.YYYY, HH:MM, Город\"",
		Short: "Compute one natal chart",
		Long:  "Parses one birth line, prints the report, and optionally saves the wheel image.",
		Args:  cobra.ArbitraryArgs,
		RunE:  runChart,
	}
	cmd.Flags().String("input", "", "Birth line (alternative to the positional argument)")
	cmd.Flags().String("out", "", "Write the wheel PNG to this path")
	cmd.Flags().Bool("json", false, "Print the chart as JSON instead of the report")
	return cmd
}

func runChart(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}

	line, _ := cmd.Flags().GetString("input")
	if line == "" {
		line = strings.Join(args, " ")
	}
	if strings.TrimSpace(line) == "" {
		return fmt.Errorf("provide the birth line as an argument or via --input")
	}

	rec, err := birth.Parse(line)
	if err != nil {
		return err
	}
	c, err := app.charts.Compute(cmd.Context(), rec)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := printJSON(chartOutOf(c)); err != nil {
			return err
		}
	} else {
		fmt.Println(render.NatalReport(c))
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		png, err := app.wheel.Natal(c)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, png, 0o644); err != nil {
			return err
		}
		log.Info().Str("path", out).Msg("wheel image written")
	}
	return nil
}

func newSynastryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synastry",
		Short: "Compare two birth charts",
		Long:  "Computes the synastry of two birth lines and prints the report.",
		RunE:  runSynastry,
	}
	cmd.Flags().String("a", "", "First person, \"Имя, ДД.MM.YYYY, HH:MM, Город\"")
	cmd.Flags().String("b", "", "Second person, same format")
	cmd.Flags().String("out", "", "Write the side-by-side wheel PNG to this path")
	cmd.Flags().Bool("json", false, "Print the synastry as JSON instead of the report")
	cmd.MarkFlagRequired("a")
	cmd.MarkFlagRequired("b")
	return cmd
}

func runSynastry(cmd *cobra.Command, args []string) error {
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}

	lineA, _ := cmd.Flags().GetString("a")
	lineB, _ := cmd.Flags().GetString("b")
	recA, err := birth.Parse(lineA)
	if err != nil {
		return fmt.Errorf("a: %w", err)
	}
	recB, err := birth.Parse(lineB)
	if err != nil {
		return fmt.Errorf("b: %w", err)
	}

	syn, err := app.charts.Synastry(cmd.Context(), recA, recB)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out := synastryOut{A: chartOutOf(syn.A), B: chartOutOf(syn.B)}
		for _, a := range syn.Aspects {
			out.Aspects = append(out.Aspects, aspectOut{
				Body:       a.Body.String(),
				Separation: a.Separation,
				Kind:       a.Kind.String(),
			})
		}
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		fmt.Println(render.SynastryReport(syn))
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		png, err := app.wheel.Synastry(syn)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, png, 0o644); err != nil {
			return err
		}
		log.Info().Str("path", out).Msg("wheel image written")
	}
	return nil
}

// chartOut is the one-shot CLI JSON shape.
type chartOut struct {
	Name        string        `json:"name"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	Place       string        `json:"place"`
	JulianDay   float64       `json:"julian_day"`
	InstantPath string        `json:"instant_path"`
	Positions   []positionOut `json:"positions"`
}

type positionOut struct {
	Body      string   `json:"body"`
	Resolved  bool     `json:"resolved"`
	Longitude *float64 `json:"longitude,omitempty"`
	Sign      string   `json:"sign,omitempty"`
}

type aspectOut struct {
	Body       string  `json:"body"`
	Separation float64 `json:"separation"`
	Kind       string  `json:"kind"`
}

type synastryOut struct {
	A       chartOut    `json:"a"`
	B       chartOut    `json:"b"`
	Aspects []aspectOut `json:"aspects"`
}

func chartOutOf(c *chart.Chart) chartOut {
	out := chartOut{
		Name:        c.Record.Name,
		Date:        c.Record.Date,
		Time:        c.Record.Time,
		Place:       c.Record.Place,
		JulianDay:   float64(c.JD),
		InstantPath: string(c.Path),
	}
	for _, body := range astro.Bodies {
		p := positionOut{Body: body.String()}
		if lon, ok := c.Positions.Longitude(body); ok {
			v := lon
			p.Resolved = true
			p.Longitude = &v
			p.Sign = c.Signs[body].String()
		}
		out.Positions = append(out.Positions, p)
	}
	return out
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
