package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cnergy/webserve/internal/state"
	"github.com/cnergy/webserve/internal/web"
)

// syncBuffer is written by Run's goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var localURL = regexp.MustCompile(`http://localhost:(\d+)`)

func waitFor(t *testing.T, out *syncBuffer, substr string) string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		s := out.String()
		if strings.Contains(s, substr) {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q in output:\n%s", substr, s)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func newWebRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "build", "web")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>ok</html>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestRun_MissingRoot(t *testing.T) {
	cases := []struct {
		mode       Mode
		wantPrefix string
	}{
		{mode: ServeWeb, wantPrefix: "Error: "},
		{mode: TestLocal, wantPrefix: "❌ Error: "},
	}
	for _, c := range cases {
		t.Run(c.mode.Name, func(t *testing.T) {
			missing := filepath.Join(t.TempDir(), "build", "web")
			var out bytes.Buffer
			a := New(c.mode, web.ServerConfig{ListenAddr: "127.0.0.1:0", Root: missing})
			a.Out = &out
			a.NoColor = true
			a.Chdir = func(string) error {
				t.Fatalf("Chdir must not be called for a missing root")
				return nil
			}

			err := a.Run(context.Background())

			var rootErr *RootMissingError
			if !errors.As(err, &rootErr) {
				t.Fatalf("err = %v, want *RootMissingError", err)
			}
			if rootErr.Path != missing {
				t.Fatalf("Path = %q, want %q", rootErr.Path, missing)
			}
			if ExitCode(err) != 1 {
				t.Fatalf("ExitCode = %d, want 1", ExitCode(err))
			}
			want := c.wantPrefix + missing + " does not exist!\nPlease run 'flutter build web' first.\n"
			if out.String() != want {
				t.Fatalf("output = %q, want %q", out.String(), want)
			}
			if a.Server != nil {
				t.Fatalf("server must not be created for a missing root")
			}
		})
	}
}

func TestRun_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "web")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	a := New(ServeWeb, web.ServerConfig{ListenAddr: "127.0.0.1:0", Root: file})
	a.Out = io.Discard
	a.Chdir = func(string) error { return nil }

	err := a.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("err = %v, want not a directory error", err)
	}
	var rootErr *RootMissingError
	if errors.As(err, &rootErr) {
		t.Fatalf("a file root is not a missing root")
	}
	if ExitCode(err) != 1 {
		t.Fatalf("ExitCode = %d, want 1", ExitCode(err))
	}
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	root := newWebRoot(t)
	out := &syncBuffer{}

	var chdirTo string
	a := New(ServeWeb, web.ServerConfig{ListenAddr: "127.0.0.1:0", Root: root})
	a.Out = out
	a.NoColor = true
	a.Chdir = func(dir string) error {
		chdirTo = dir
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	banner := waitFor(t, out, "Press Ctrl+C to stop the server")
	m := localURL.FindStringSubmatch(banner)
	if m == nil {
		t.Fatalf("no local URL in banner:\n%s", banner)
	}
	if !strings.Contains(banner, "📁 Serving from: "+root) {
		t.Fatalf("banner does not name the root:\n%s", banner)
	}

	resp, err := http.Get("http://127.0.0.1:" + m[1] + "/index.html")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "<html>ok</html>" {
		t.Fatalf("GET /index.html = %d %q", resp.StatusCode, body)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v after cancel", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}

	if chdirTo != root {
		t.Fatalf("Chdir(%q), want %q", chdirTo, root)
	}
	if !strings.HasSuffix(out.String(), "\n🛑 Server stopped.\n") {
		t.Fatalf("missing stop message:\n%s", out.String())
	}
	if got := a.Server.State.Snapshot().Phase; got != state.STOPPED {
		t.Fatalf("phase = %s, want Stopped", got)
	}
}

func TestRun_ShowQR(t *testing.T) {
	root := newWebRoot(t)
	out := &syncBuffer{}

	a := New(TestLocal, web.ServerConfig{ListenAddr: "127.0.0.1:0", Root: root})
	a.Out = out
	a.NoColor = true
	a.ShowQR = true
	a.Chdir = func(string) error { return nil }
	a.LANAddr = func() (string, error) { return "192.168.1.20", nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	banner := waitFor(t, out, "Press Ctrl+C to stop")
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	m := localURL.FindStringSubmatch(banner)
	if m == nil {
		t.Fatalf("no local URL in banner:\n%s", banner)
	}
	if !strings.Contains(banner, "📱 Network: http://192.168.1.20:"+m[1]) {
		t.Fatalf("banner has no LAN URL:\n%s", banner)
	}
	if !strings.ContainsAny(out.String(), "█▀▄") {
		t.Fatalf("banner has no QR code:\n%s", out.String())
	}
}

func TestRun_ShowQRWithoutLAN(t *testing.T) {
	root := newWebRoot(t)
	out := &syncBuffer{}

	a := New(ServeWeb, web.ServerConfig{ListenAddr: "127.0.0.1:0", Root: root})
	a.Out = out
	a.NoColor = true
	a.ShowQR = true
	a.Chdir = func(string) error { return nil }
	a.LANAddr = func() (string, error) { return "", errors.New("offline") }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	banner := waitFor(t, out, "Press Ctrl+C")
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(banner, "Network:") {
		t.Fatalf("banner should omit the LAN URL when lookup fails:\n%s", banner)
	}
}

func TestRun_ListenError(t *testing.T) {
	root := newWebRoot(t)
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	a := New(ServeWeb, web.ServerConfig{ListenAddr: busy.Addr().String(), Root: root})
	a.Out = io.Discard
	a.Chdir = func(string) error { return nil }

	err = a.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "listen") {
		t.Fatalf("err = %v, want listen error", err)
	}
	if ExitCode(err) != 1 {
		t.Fatalf("ExitCode = %d, want 1", ExitCode(err))
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(&RootMissingError{Path: "build/web"}); got != 1 {
		t.Fatalf("ExitCode(missing root) = %d, want 1", got)
	}
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Fatalf("ExitCode(err) = %d, want 1", got)
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New(TestLocal, web.ServerConfig{})
	if a.Config.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q, want :8080", a.Config.ListenAddr)
	}
	if a.Config.Root != DefaultRoot {
		t.Fatalf("Root = %q, want %q", a.Config.Root, DefaultRoot)
	}
}
