package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/koehlma/g19d/g19"
	"github.com/koehlma/g19d/internal/log"
	"github.com/koehlma/g19d/internal/service"
)

// Serve runs the daemon: acquire the keyboard, start polling for keys and
// export the session on D-Bus until interrupted.
type Serve struct {
	busFlags
}

// Run is called by kong when the serve command is executed.
func (c *Serve) Run(logger *slog.Logger, raw log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := g19.Open(logger, raw)
	if err != nil {
		return err
	}
	defer sess.Stop()

	if err := sess.Start(); err != nil {
		return err
	}

	conn, err := dialBus(c.SessionBus)
	if err != nil {
		return fmt.Errorf("connect to bus: %w", err)
	}
	defer conn.Close()

	svc, err := service.Export(conn, sess, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	logger.Info("g19d is running", "bus", busName(c.SessionBus))
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func busName(session bool) string {
	if session {
		return "session"
	}
	return "system"
}
