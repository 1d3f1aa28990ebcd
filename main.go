package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/lab1702/tank-agent/config"
	"github.com/lab1702/tank-agent/protocol"
	"github.com/lab1702/tank-agent/session"
	"github.com/lab1702/tank-agent/viz"
)

func main() {
	if err := makeapp().Run(os.Args); err != nil {
		log.Fatal("tank agent failed", "err", err)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "tank-agent"
	app.Usage = "Autonomous tank for the arena game server"
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "Play games until the server ends them",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "config", Value: "", Usage: "YAML config file", EnvVar: "TANK_CONFIG"},
				cli.StringFlag{Name: "transport", Value: config.TransportStdio, Usage: "stdio or websocket", EnvVar: "TANK_TRANSPORT"},
				cli.StringFlag{Name: "url", Value: "", Usage: "Game server websocket URL", EnvVar: "TANK_URL"},
				cli.StringFlag{Name: "codec", Value: "json", Usage: "json or msgpack", EnvVar: "TANK_CODEC"},
				cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", EnvVar: "TANK_LOG_LEVEL"},
				cli.IntFlag{Name: "agents", Value: 1, Usage: "Independent sessions to run (websocket only)", EnvVar: "TANK_AGENTS"},
				cli.StringFlag{Name: "dial-timeout", Value: "30s", Usage: "Give up dialing after this long", EnvVar: "TANK_DIAL_TIMEOUT"},
				cli.Uint64Flag{Name: "seed", Usage: "Fixed random seed", EnvVar: "TANK_SEED"},
				cli.BoolFlag{Name: "viz", Usage: "Draw the world in the terminal"},
				cli.BoolFlag{Name: "lead-shots", Usage: "Aim ahead of a moving enemy"},
			},
			Action: runAction,
		},
		{
			Name:  "schema",
			Usage: "Print the JSON schema of the config file",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "out", Value: "", Usage: "Write to this file instead of stdout"},
			},
			Action: schemaAction,
		},
	}
	return app
}

// loadConfig starts from the config file, if any, and applies the flags that
// were set explicitly.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("transport") {
		cfg.Transport = c.String("transport")
	}
	if c.IsSet("url") {
		cfg.URL = c.String("url")
	}
	if c.IsSet("codec") {
		cfg.Codec = c.String("codec")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("agents") {
		cfg.Agents = c.Int("agents")
	}
	if c.IsSet("dial-timeout") {
		cfg.DialTimeout = c.String("dial-timeout")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if c.IsSet("viz") {
		cfg.Viz = c.Bool("viz")
	}
	if c.IsSet("lead-shots") {
		cfg.Agent.LeadShots = c.Bool("lead-shots")
	}

	return cfg, cfg.Validate()
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// stdout carries the stdio protocol and the viz owns the terminal
	var out io.Writer = os.Stderr
	if cfg.Viz {
		out = io.Discard
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:           cfg.Level(),
		ReportTimestamp: true,
		Prefix:          "tank",
	})
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := protocol.CodecByName(cfg.Codec)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case config.TransportWebsocket:
		err = runWebsocket(ctx, cfg, codec, logger)
	default:
		var tr *protocol.Stdio
		if tr, err = protocol.NewStdio(os.Stdin, os.Stdout, codec); err == nil {
			err = play(ctx, tr, cfg, logger, 0)
		}
	}

	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	return err
}

// runWebsocket plays cfg.Agents independent games at once. The first failure
// cancels the rest.
func runWebsocket(ctx context.Context, cfg config.Config, codec protocol.Codec, logger *log.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.Agents {
		g.Go(func() error {
			tr, err := protocol.DialWebsocket(ctx, cfg.URL, codec, protocol.DialOptions{
				Timeout: cfg.DialTimeoutDuration(),
				Logger:  logger.With("agent", i),
			})
			if err != nil {
				return fmt.Errorf("agent %d: %w", i, err)
			}
			if err := play(ctx, tr, cfg, logger, i); err != nil {
				return fmt.Errorf("agent %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// play runs one session over tr and closes it afterwards.
func play(ctx context.Context, tr protocol.Transport, cfg config.Config, logger *log.Logger, n int) error {
	defer func() {
		if closeErr := tr.Close(); closeErr != nil {
			logger.Debug("close transport", "agent", n, "err", closeErr)
		}
	}()

	opts := session.Options{
		Params: cfg.Agent,
		Logger: logger.With("agent", n),
	}
	if cfg.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(cfg.Seed, uint64(n)))
	}
	if cfg.Viz {
		term, err := viz.Open()
		if err != nil {
			return err
		}
		defer term.Close()
		opts.Observer = term
	}

	s := session.New(tr, opts)
	return s.Run(ctx)
}

func schemaAction(c *cli.Context) error {
	data, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	data = append(data, '\n')

	if path := c.String("out"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write schema: %w", err)
		}
		return nil
	}
	_, err = c.App.Writer.Write(data)
	return err
}
