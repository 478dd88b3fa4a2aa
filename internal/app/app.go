package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cnergy/webserve/internal/render"
	"github.com/cnergy/webserve/internal/system"
	"github.com/cnergy/webserve/internal/web"
)

// RootMissingError reports that the directory to serve does not exist.
type RootMissingError struct {
	Path string
}

func (e *RootMissingError) Error() string {
	return e.Path + " does not exist"
}

type App struct {
	Mode    Mode
	Config  web.ServerConfig
	Logger  Logger
	Out     io.Writer
	ShowQR  bool
	NoColor bool

	// Chdir switches the process into the served root before serving.
	Chdir func(dir string) error

	// LANAddr looks up the address shown in the QR code.
	LANAddr func() (string, error)

	// Server is set once Run has started serving.
	Server *web.HTTPServer
}

func New(mode Mode, cfg web.ServerConfig) *App {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = mode.ListenAddr()
	}
	if cfg.Root == "" {
		cfg.Root = mode.Root
	}
	return &App{
		Mode:    mode,
		Config:  cfg,
		Logger:  NoopLogger{},
		Out:     os.Stdout,
		Chdir:   os.Chdir,
		LANAddr: system.LANIPv4,
	}
}

// Run validates the root, serves it until ctx is done and prints the stop
// message. A missing root yields *RootMissingError after the diagnostic has
// been printed.
func (app *App) Run(ctx context.Context) error {
	app.withDefaults()

	root, err := filepath.Abs(app.Config.Root)
	if err != nil {
		return fmt.Errorf("resolve root %q: %w", app.Config.Root, err)
	}

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		lines := app.Mode.MissingRootLines(root)
		_ = render.Message(app.Out, render.Alert, app.NoColor, lines[0])
		for _, line := range lines[1:] {
			_ = render.Message(app.Out, nil, app.NoColor, line)
		}
		return &RootMissingError{Path: root}
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	if err := app.Chdir(root); err != nil {
		return fmt.Errorf("chdir %s: %w", root, err)
	}
	app.Logger.Debugf("app", "working directory is now %s", root)

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: app.Config.ListenAddr, Root: root})
	server.Logger = app.Logger
	app.Server = server

	if err := server.Start(ctx); err != nil {
		return err
	}
	addr := server.ListenAddr()
	app.Logger.Infof("app", "%s listening on %s, serving %s", app.Mode.Name, addr, root)

	serveInfo := app.serveInfo(addr, root)
	banner := app.Mode.Banner(serveInfo)
	banner.NoColor = app.NoColor
	banner.QR = app.qrCode(serveInfo.LANURL)
	if _, err := banner.WriteTo(app.Out); err != nil {
		app.Logger.Errorf("app", "write banner: %v", err)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-server.Errors():
	}

	if err := server.Stop(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	_ = render.Message(app.Out, nil, app.NoColor, "\n🛑 Server stopped.")
	return nil
}

func (app *App) withDefaults() {
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Chdir == nil {
		app.Chdir = os.Chdir
	}
	if app.LANAddr == nil {
		app.LANAddr = system.LANIPv4
	}
	if app.Config.ListenAddr == "" {
		app.Config.ListenAddr = app.Mode.ListenAddr()
	}
	if app.Config.Root == "" {
		app.Config.Root = app.Mode.Root
	}
}

func (app *App) serveInfo(addr, root string) ServeInfo {
	info := ServeInfo{Port: portOf(addr, app.Mode.Port), Dir: root}
	if !app.ShowQR {
		return info
	}
	ip, err := app.LANAddr()
	if err != nil {
		app.Logger.Errorf("app", "lan address: %v", err)
		return info
	}
	info.LANURL = "http://" + net.JoinHostPort(ip, strconv.Itoa(info.Port))
	return info
}

func (app *App) qrCode(url string) string {
	if url == "" {
		return ""
	}
	qr, err := render.GenerateQRCodeText(url)
	if err != nil {
		app.Logger.Errorf("app", "qr code: %v", err)
		return ""
	}
	return qr
}

func portOf(addr string, fallback int) int {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fallback
	}
	return n
}

// ExitCode maps the result of Run to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
