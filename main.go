// Command ricochet runs the Ricochet Robots solver.
//
// Commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket events and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server against an existing API or an internal one
//  3. "solve" solves one target offline and prints the moves
//  4. "seed" prints the seed of the generated board
//
// Flags can also be set through environment variables, which may come from
// a .env file in the working directory.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/ricochet/api"
	"github.com/wricardo/mcp-training/ricochet/game/config"
	"github.com/wricardo/mcp-training/ricochet/game/engine"
	"github.com/wricardo/mcp-training/ricochet/game/service"
	"github.com/wricardo/mcp-training/ricochet/game/session"
	"github.com/wricardo/mcp-training/ricochet/transport/mcp"
	"github.com/wricardo/mcp-training/ricochet/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Ricochet Robots Solver"
)

const (
	defaultAddr     = "localhost:8080"
	cleanupInterval = time.Hour
	syncInterval    = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("error loading .env file")
		}
	} else {
		log.Debug("loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "ricochet",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("RICOCHET_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log format: text or json",
				Value:   "text",
				Sources: cli.EnvVars("RICOCHET_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "boards-dir",
				Usage:   "directory containing YAML board descriptors",
				Value:   "boards",
				Sources: cli.EnvVars("RICOCHET_BOARDS_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Usage:   "directory where session seeds are stored",
				Value:   "sessions",
				Sources: cli.EnvVars("RICOCHET_SESSIONS_DIR"),
			},
		},
		Before: setupLogging,
		Action: runServe,
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			solveCommand(),
			seedCommand(),
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	// Logs go to stderr so the mcp command keeps stdout for the protocol.
	log.SetOutput(os.Stderr)
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	switch cmd.String("log-format") {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return ctx, fmt.Errorf("unknown log format %q", cmd.String("log-format"))
	}
	return ctx, nil
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "HTTP listen address",
			Value:   defaultAddr,
			Sources: cli.EnvVars("RICOCHET_ADDR"),
		},
		&cli.DurationFlag{
			Name:  "session-ttl",
			Usage: "drop sessions not accessed for this long",
			Value: 24 * time.Hour,
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "expose the server through an ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "custom ngrok domain",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "http"},
		Usage:   "run the HTTP server with REST API, WebSocket events and MCP endpoint",
		Flags:   serveFlags(),
		Action:  runServe,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "REST API to proxy; an internal server is started when unreachable",
				Value:   "http://" + defaultAddr,
				Sources: cli.EnvVars("RICOCHET_API_URL"),
			},
		},
		Action: runStdioMCP,
	}
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:      "solve",
		Usage:     "solve one target offline",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "seed", Usage: "board seed (defaults to the generated board)"},
			&cli.StringFlag{Name: "board", Usage: "board descriptor name in --boards-dir"},
			&cli.StringFlag{Name: "color", Usage: "target color: red, green, blue, yellow", Required: true},
			&cli.StringFlag{Name: "shape", Usage: "target shape: circle, square, triangle, star", Required: true},
			&cli.BoolFlag{Name: "render", Usage: "print the board with the target marked"},
		},
		Action: runSolve,
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "print the seed of the generated board",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-mirrors", Usage: "generate the board without mirrors"},
		},
		Action: runSeed,
	}
}

// services holds what the transports need from the game layer.
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
}

// initializeServices wires the board catalogue, session persistence and the
// game service. Persisted sessions are loaded before it returns.
func initializeServices(boardsDir, sessionsDir string) (*services, error) {
	configManager, err := config.NewManager(boardsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.WithError(err).Warn("failed to load persisted sessions")
	}

	return &services{
		game:        service.NewGameService(sessionManager, configManager),
		sessions:    sessionManager,
		persistence: persistence,
	}, nil
}

// newMainRouter mounts the API at the root and the MCP JSON-RPC endpoint at /mcp.
func newMainRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
	return mainRouter
}

// runServe runs the HTTP server until SIGINT or SIGTERM.
func runServe(ctx context.Context, cmd *cli.Command) error {
	svc, err := initializeServices(cmd.String("boards-dir"), cmd.String("sessions-dir"))
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = defaultAddr
	}
	ttl := cmd.Duration("session-ttl")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	mainRouter := newMainRouter(api.NewServer(svc.game, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		log.WithFields(log.Fields{
			"addr":    addr,
			"version": Version,
		}).Info("HTTP server listening")
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server shutdown error")
		}
		return nil
	})

	g.Go(func() error {
		sessionCleanupRoutine(ctx, svc.sessions, cleanupInterval, ttl)
		return nil
	})

	g.Go(func() error {
		filesystemSyncRoutine(ctx, svc.sessions, svc.persistence, syncInterval)
		return nil
	})

	if cmd.Bool("ngrok") {
		g.Go(func() error {
			runTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
			return nil
		})
	}

	err = g.Wait()
	log.Info("server stopped")
	return err
}

// runTunnel serves handler through ngrok until ctx is done. Tunnel failures
// are logged and never stop the local server.
func runTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	tunnel := ngrokConfig.HTTPEndpoint()
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.WithField("domain", domain).Info("using custom ngrok domain")
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.WithField("url", url).Info("ngrok tunnel established")
	log.Infof("  REST API (ngrok): %s/api", url)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", url)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", url)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.WithError(err).Warn("ngrok server error")
	}
	log.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions not accessed within ttl.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.WithField("count", removed).Info("cleaned up expired sessions")
			}
		}
	}
}

// filesystemSyncRoutine drops sessions from memory once their seed file is
// deleted from the sessions directory.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, interval time.Duration) {
	if persistence == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneOrphanedSessions(manager, persistence); pruned > 0 {
				log.WithField("count", pruned).Info("filesystem sync: pruned orphaned sessions")
			}
		}
	}
}

func pruneOrphanedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			log.WithField("session", sess.ID).Debug("pruned session from memory (file deleted)")
		}
	}
	return pruned
}

// runStdioMCP serves MCP on stdin/stdout. It proxies --api-url when that API
// answers, and otherwise starts an internal API on a random loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")

	if !apiReachable(baseURL) {
		log.WithField("url", baseURL).Info("no API server found, starting internal HTTP server")

		svc, err := initializeServices(cmd.String("boards-dir"), cmd.String("sessions-dir"))
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	log.WithField("api", baseURL).Info("MCP stdio server ready")
	return mcp.NewClient(baseURL).ServeStdio()
}

func apiReachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// loadBoard picks the board for the solve command: --seed wins over --board,
// and the generated board is used when neither is set.
func loadBoard(cmd *cli.Command) (*engine.Board, error) {
	if seed := cmd.String("seed"); seed != "" {
		return engine.ParseSeed(seed)
	}
	if name := cmd.String("board"); name != "" {
		configs, err := config.NewManager(cmd.String("boards-dir"))
		if err != nil {
			return nil, err
		}
		descriptor, err := configs.LoadBoard(name)
		if err != nil {
			return nil, err
		}
		return descriptor.Build()
	}
	return engine.NewBoard(engine.DefaultOptions())
}

func runSolve(ctx context.Context, cmd *cli.Command) error {
	board, err := loadBoard(cmd)
	if err != nil {
		return err
	}

	color, err := engine.ParseColor(cmd.String("color"))
	if err != nil {
		return err
	}
	shape, err := engine.ParseShape(cmd.String("shape"))
	if err != nil {
		return err
	}
	goal := engine.Goal{Color: color, Shape: shape}

	solver := engine.NewSolver(board, engine.WithLogger(log.StandardLogger()))
	start := time.Now()
	solution, err := solver.Solve(board.InitialPawns(), color, goal)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	if cmd.Bool("render") {
		fmt.Fprint(out, engine.Render(board, board.InitialPawns(), &goal))
		fmt.Fprintln(out)
	}

	if !solution.Solved {
		fmt.Fprintf(out, "%s at %s: no solution (%d states expanded)\n",
			goal, solution.Goal, solution.Stats.Expanded)
		return nil
	}

	fmt.Fprintf(out, "%s at %s: %d moves (%d states expanded in %s)\n",
		goal, solution.Goal, solution.Length(), solution.Stats.Expanded, time.Since(start).Round(time.Microsecond))
	for i, m := range solution.Moves {
		fmt.Fprintf(out, "%d. %s\n", i+1, m)
	}
	return nil
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	opts := engine.DefaultOptions()
	if cmd.Bool("no-mirrors") {
		opts.Mirrors = 0
	}
	board, err := engine.NewBoard(opts)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, board.Seed())
	return nil
}
