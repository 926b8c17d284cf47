package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"os/user"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/notequiz/internal/app"
	"github.com/abhisek/notequiz/internal/client"
	"github.com/abhisek/notequiz/internal/logging"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take quizzes in the terminal",
	Long: "Starts the terminal client. Without --server an API server is started in-process on a\n" +
		"loopback port against the local database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func addPlayFlags(c *cobra.Command) {
	c.Flags().String("server", "", "Base URL of a running notequiz server")
	c.Flags().String("user", "", "User ID to play as (defaults to the OS user)")
	c.Flags().String("token", "", "Bearer token for --server (issued locally when empty)")
}

func init() {
	addPlayFlags(playCmd)
}

// runPlay connects the TUI to a server, starting one in-process when none is
// given.
func runPlay(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI; logs go to the file only.
	log, err := logging.New(cfg.Logging, nil)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		userID = defaultUser()
	}
	serverURL, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serverURL == "" {
		gin.SetMode(gin.ReleaseMode)

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		srv, tokens, err := buildServer(ctx, cfg, st, log)
		if err != nil {
			return err
		}

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		serveCtx, stopServer := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- srv.Serve(serveCtx, ln) }()
		defer func() {
			stopServer()
			if err := <-done; err != nil {
				log.Error("embedded server", zap.Error(err))
			}
		}()

		serverURL = "http://" + ln.Addr().String()
		if token, err = tokens.Issue(userID); err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
	} else if token == "" {
		if token, err = newTokens(cfg, log).Issue(userID); err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
	}

	c := client.New(serverURL, token)

	readyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.WaitReady(readyCtx, 100*time.Millisecond); err != nil {
		return err
	}
	if err := c.CheckServer(ctx, version); err != nil {
		return err
	}

	log.Info("starting terminal client", zap.String("server", serverURL), zap.String("user", userID))
	return app.Run(app.Options{API: c, User: userID})
}

func defaultUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
