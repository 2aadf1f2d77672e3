package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/config"
	"github.com/astroluna/astroluna/internal/infrastructure/cache"
	"github.com/astroluna/astroluna/internal/infrastructure/ephemeris"
	"github.com/astroluna/astroluna/internal/infrastructure/geo"
	httpapi "github.com/astroluna/astroluna/internal/interfaces/http"
	"github.com/astroluna/astroluna/internal/interfaces/render"
	"github.com/astroluna/astroluna/internal/telemetry/metrics"
	"github.com/astroluna/astroluna/internal/ui/menu"
)

const version = "v2.0.0"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	httpapi.Version = version

	rootCmd := &cobra.Command{
		Use:     "astroluna",
		Short:   "Natal charts and synastry, in the terminal and beyond",
		Version: version,
		Long: `🌙 AstroLuna computes natal charts and synastry from one-line birth records.

Run 'astroluna' in a terminal for the interactive menu. Subcommands run the
Telegram bot, the HTTP API, or one-shot computations for scripting.`,
		Run: runDefaultEntry,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (optional)")

	rootCmd.AddCommand(newBotCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newSynastryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runDefaultEntry routes a bare invocation: menu on a terminal, guidance
// otherwise.
func runDefaultEntry(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "❌ Interactive menu requires a TTY terminal.\n")
		fmt.Fprintf(os.Stderr, "   Use subcommands for non-interactive runs:\n\n")
		fmt.Fprintf(os.Stderr, "   astroluna chart \"Анна, 01.05.1990, 14:30, Москва\"\n")
		fmt.Fprintf(os.Stderr, "   astroluna serve --config config.yaml\n")
		fmt.Fprintf(os.Stderr, "   astroluna bot\n")
		fmt.Fprintf(os.Stderr, "   astroluna --help\n")
		os.Exit(2)
	}

	app, err := buildApp(cmd)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}
	if err := menu.New(app.charts, app.wheel).Run(cmd.Context()); err != nil {
		log.Error().Err(err).Msg("menu failed")
		os.Exit(1)
	}
}

// app bundles the engine every surface runs on.
type app struct {
	cfg     *config.Config
	charts  *chart.Service
	wheel   *render.Wheel
	metrics *metrics.Registry
}

// buildApp loads configuration and wires the chart engine: the analytic
// ephemeris oracle behind the timezone-aware instant conversion.
func buildApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Logging)

	reg := metrics.NewRegistry()
	zones := geo.NewTimezoneIndex(cfg.Geo.Cities)
	charts := chart.NewService(ephemeris.NewAnalytic(), zones, reg)
	wheel := render.NewWheel(render.WheelConfig{
		Size:     cfg.Wheel.Size,
		FontPath: cfg.Wheel.FontPath,
	})

	return &app{cfg: cfg, charts: charts, wheel: wheel, metrics: reg}, nil
}

// buildGeocoder wires the Nominatim client behind a cache: Redis when an
// address is configured, in-process otherwise.
func (a *app) buildGeocoder() *geo.Nominatim {
	var store cache.Store
	if a.cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: a.cfg.Redis.Addr, DB: a.cfg.Redis.DB})
		store = cache.NewRedis(client)
		log.Info().Str("addr", a.cfg.Redis.Addr).Msg("geocode cache on redis")
	} else {
		store = cache.NewMemory(5 * time.Minute)
	}

	return geo.NewNominatim(geo.NominatimConfig{
		BaseURL:   a.cfg.Geo.NominatimURL,
		UserAgent: a.cfg.Geo.UserAgent,
		RPS:       a.cfg.Geo.RPS,
		Timeout:   a.cfg.Geo.Timeout(),
		CacheTTL:  a.cfg.Geo.CacheTTL(),
	}, cache.Instrument(store, a.metrics, "geocode"))
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty || term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
