// Command testlocal serves ./build/web on port 8080 for CSP testing; the
// served pages bring their own policy meta tag, the server sets none.
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
	code := app.Main(ctx, app.TestLocal, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
