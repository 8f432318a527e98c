package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/noti-sh/noti/internal/config"
	"github.com/noti-sh/noti/internal/dispatch"
	"github.com/noti-sh/noti/internal/notifier"
	"github.com/noti-sh/noti/internal/transport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("noti", flag.ExitOnError)
	configPath := flags.String("config", defaultConfigPath(), "path to the config file")
	verbose := flags.Bool("verbose", false, "enable debug logging")
	flags.Usage = usage(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	log := newLogger(*verbose)
	rest := flags.Args()

	if len(rest) > 0 {
		switch rest[0] {
		case "init":
			return handleInitCommand(*configPath, rest[1:])
		case "destination":
			return handleDestinationCommand(*configPath, rest[1:])
		}
	}

	var message string
	if len(rest) > 0 {
		message = rest[0]
	}
	return execute(*configPath, message, len(rest) > 0, log)
}

// execute either sends a message immediately to all configured
// destinations or starts streaming from stdin.
func execute(configPath, message string, hasMessage bool, log zerolog.Logger) error {
	manager := config.NewManager(configPath)
	if err := manager.Load(); err != nil {
		return err
	}
	cfg := manager.Config()

	// Streaming mode and a message argument are mutually exclusive.
	// Check before any dispatcher exists.
	if err := dispatch.ValidateMode(cfg.Stream.Enabled, hasMessage); err != nil {
		return err
	}

	dispatcher := dispatch.NewDispatcher(notifier.NewDesktop(), transport.NewClient(), log)

	if cfg.Stream.Enabled {
		processor, err := dispatch.NewStreamProcessor(dispatcher, cfg.Stream, cfg.Destination, log)
		if err != nil {
			return err
		}
		return processor.Run(context.Background(), os.Stdin)
	}

	return dispatcher.DispatchAll(context.Background(), message, cfg.Destination)
}

func handleInitCommand(configPath string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: noti init [desktop|webhook] [--custom]")
	}

	custom := false
	for _, arg := range args[1:] {
		if arg == "--custom" {
			custom = true
		}
	}

	var cfg *config.Config
	switch args[0] {
	case "desktop":
		cfg = config.DefaultDesktop()
	case "webhook":
		if custom {
			cfg = config.DefaultCustomWebhook()
		} else {
			cfg = config.DefaultWebhook()
		}
	default:
		return fmt.Errorf("unknown init destination: %s", args[0])
	}

	manager := config.NewManager(configPath)
	if err := manager.Init(cfg); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}

func handleDestinationCommand(configPath string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: noti destination [list|add]")
	}

	switch args[0] {
	case "list":
		fmt.Println("desktop")
		fmt.Println("webhook")
		return nil

	case "add":
		manager := config.NewManager(configPath)
		if err := manager.Load(); err != nil {
			return err
		}

		prompt := config.NewPrompt()
		dest, err := prompt.PromptDestination()
		if err != nil {
			return err
		}
		if err := manager.Add(dest); err != nil {
			return err
		}

		fmt.Println("Destination added")
		return nil

	default:
		return fmt.Errorf("unknown destination command: %s", args[0])
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("NOTI_CONFIG"); path != "" {
		return path
	}
	return "noti.yaml"
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func usage(flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(os.Stderr, `noti - deliver a message to configured notification destinations

usage:
  noti "message"               send a message once
  noti                         stream from stdin (needs stream.enabled)
  noti init [desktop|webhook]  create an example config (--custom for a
                               custom webhook format)
  noti destination list        list supported destination types
  noti destination add         interactively add a destination

flags:`)
		flags.PrintDefaults()
	}
}
