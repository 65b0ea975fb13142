package server

import (
	"context"
	"errors"
	"time"

	"SignalForge/internal/domain/models"
	domsvc "SignalForge/internal/domain/service"
	xhttp "SignalForge/pkg/http"
	applogger "SignalForge/pkg/logger"
)

// App runs the repeating analysis loop next to the HTTP API.
type App struct {
	analyzer   domsvc.SignalAnalyzer
	httpServer *xhttp.Server
	l          *applogger.Logger
	symbol     string
	interval   time.Duration
}

func New(analyzer domsvc.SignalAnalyzer, httpServer *xhttp.Server, l *applogger.Logger, symbol string, interval time.Duration) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		analyzer:   analyzer,
		httpServer: httpServer,
		l:          l,
		symbol:     symbol,
		interval:   interval,
	}
}

// SetInterval overrides the configured loop interval.
func (a *App) SetInterval(d time.Duration) {
	if d > 0 {
		a.interval = d
	}
}

// RunOnce performs a single cycle for the configured symbol.
func (a *App) RunOnce(ctx context.Context) (*models.AnalysisResult, error) {
	return a.analyzer.Run(ctx, a.symbol)
}

// Run serves HTTP and analyzes every interval until ctx ends or the server
// fails. A failed cycle is logged and the loop carries on.
func (a *App) Run(ctx context.Context) error {
	var serverErr <-chan error
	if a.httpServer != nil {
		serverErr = a.httpServer.Start()
	}
	a.l.Info("analysis loop started",
		applogger.String("symbol", a.symbol),
		applogger.Duration("interval", a.interval),
	)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		a.loop(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info("shutdown signal received")
	case err, ok := <-serverErr:
		if ok && err != nil {
			runErr = err
		}
	}
	return errors.Join(runErr, a.shutdown(loopDone))
}

func (a *App) loop(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		if _, err := a.RunOnce(ctx); err != nil && ctx.Err() == nil {
			a.l.Error("analysis cycle error", applogger.String("symbol", a.symbol), applogger.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) shutdown(loopDone <-chan struct{}) error {
	var err error
	if a.httpServer != nil {
		err = a.httpServer.Stop(context.Background())
	}
	<-loopDone
	a.l.Info("shutdown complete")
	return err
}
