package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cnergy/webserve/internal/system"
	"github.com/cnergy/webserve/internal/web"
)

// Main is the shared entry point of both binaries. It returns the process
// exit status.
func Main(ctx context.Context, mode Mode, args []string, stdout, stderr io.Writer) int {
	if err := web.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(stderr, "env error:", err)
		return 1
	}

	defaults, err := web.DefaultServerConfigFromEnv(mode.ListenAddr(), mode.Root)
	if err != nil {
		fmt.Fprintln(stderr, "server config error:", err)
		return 1
	}

	flags := flag.NewFlagSet(mode.Name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	debug := flags.Bool("debug", defaults.Debug, "enable debug logging; also configurable via "+web.EnvDebug)
	stdioLog := flags.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file")
	showQR := flags.Bool("qr", false, "print a QR code for opening the app from another device on the LAN")
	noColor := flags.Bool("no-color", false, "disable colored terminal output")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *stdioLog != "" {
		usingStdio := stdout == io.Writer(os.Stdout)
		if err := system.RedirectStdIO(*stdioLog); err != nil {
			fmt.Fprintln(stderr, "stdio log redirect error:", err)
		} else if usingStdio {
			// Pick up replacements made on platforms without dup2.
			stdout, stderr = os.Stdout, os.Stderr
		}
	}

	logger := NewLogrusLogger(stderr, *debug)

	cfg := defaults
	cfg.Debug = *debug

	a := New(mode, cfg)
	a.Logger = logger
	a.Out = stdout
	a.ShowQR = *showQR
	a.NoColor = *noColor

	err = a.Run(ctx)
	var missing *RootMissingError
	if err != nil && !errors.As(err, &missing) {
		logger.Errorf("app", "%v", err)
	}
	return ExitCode(err)
}
