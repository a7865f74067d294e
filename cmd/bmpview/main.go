package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/microbmp/microbmp/internal/config"
	"github.com/microbmp/microbmp/internal/handler"
	"github.com/microbmp/microbmp/internal/logging"
)

const (
	appName    = "BMP Viewer"
	appVersion = "v1.0.0"
)

func main() {
	hostFlag := flag.String("host", "", "viewer server host")
	portFlag := flag.String("port", "", "viewer server port")
	logLevelFlag := flag.String("log-level", "", "log level (debug, info, warn, error)")
	helpFlag := flag.Bool("help", false, "show help")
	versionFlag := flag.Bool("version", false, "show version")

	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}

	if *versionFlag {
		fmt.Printf("%s %s\n", appName, appVersion)
		return
	}

	opts := config.LoadOptions{
		Host:     strings.TrimSpace(*hostFlag),
		Port:     strings.TrimSpace(*portFlag),
		LogLevel: strings.TrimSpace(*logLevelFlag),
	}

	cfg, err := config.LoadWithOverrides(opts)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.SetLevelFromString(cfg.Logging.Level)

	server := createServer(cfg)
	logging.Info("starting server on %s:%s", cfg.Server.Host, cfg.Server.Port)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalln(err)
	}
}

func createServer(cfg *config.Config) *http.Server {
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	viewer := handler.NewViewer(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/", servePage)
	mux.HandleFunc("/view", viewer.View)

	return &http.Server{
		Addr:         addr,
		Handler:      requestLoggingMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debug("%s %s %s %s", r.RemoteAddr, r.Method, r.URL.Path, time.Since(start))
	})
}

func servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func showHelp() {
	fmt.Println(appName)
	fmt.Println("USAGE: bmpview [options]")
	fmt.Println("OPTIONS:")
	fmt.Println("  -host       Set server listen host (default 0.0.0.0)")
	fmt.Println("  -port       Set server listen port (default 8080)")
	fmt.Println("  -log-level  Set log level (debug, info, warn, error)")
	fmt.Println("  -version    Show version information")
	fmt.Println("  -help       Show this help message")
	fmt.Println("ENVIRONMENT VARIABLES: SERVER_HOST, SERVER_PORT, LOG_LEVEL, VIEWER_MAX_UPLOAD_BYTES, ALLOWED_ORIGINS")
}

// Single-page UI: pick a BMP file, ship it over the websocket, draw the
// returned RGBA frame into a canvas.
const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>BMP Viewer</title></head>
<body>
<input type="file" id="file" accept=".bmp">
<pre id="summary"></pre>
<canvas id="canvas"></canvas>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/view");
ws.binaryType = "arraybuffer";
let meta = null;
ws.onmessage = (ev) => {
  if (typeof ev.data === "string") {
    meta = JSON.parse(ev.data);
    document.getElementById("summary").textContent = meta.error || meta.summary;
    return;
  }
  if (!meta || meta.type !== "image") return;
  const canvas = document.getElementById("canvas");
  canvas.width = meta.width;
  canvas.height = meta.height;
  const img = new ImageData(new Uint8ClampedArray(ev.data), meta.width, meta.height);
  canvas.getContext("2d").putImageData(img, 0, 0);
};
document.getElementById("file").onchange = async (ev) => {
  const f = ev.target.files[0];
  if (f) ws.send(await f.arrayBuffer());
};
</script>
</body>
</html>
`
