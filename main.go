// Command webserve serves ./build/web on port 8000 with permissive CORS
// headers for local testing of the web build.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cnergy/webserve/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Main(ctx, app.ServeWeb, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
