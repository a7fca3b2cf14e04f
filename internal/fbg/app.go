package fbg

import (
	"fmt"
	"log/slog"
	"os"
)

// App holds the wired dependencies of the FBG data service.
type App struct {
	store     Store
	calcs     *CalcRegistry
	collector *Collector
	logger    *slog.Logger
}

// AppOption configures the App.
type AppOption func(*App)

// WithStore sets the persistence store.
func WithStore(s Store) AppOption {
	return func(a *App) {
		a.store = s
	}
}

// WithCalcRegistry sets the calculation registry. Defaults to one built from
// DefaultCalibration.
func WithCalcRegistry(r *CalcRegistry) AppOption {
	return func(a *App) {
		a.calcs = r
	}
}

// WithAppLogger sets the logger.
func WithAppLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new App with the given options.
func NewApp(opts ...AppOption) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if app.calcs == nil {
		app.calcs = NewCalcRegistry(DefaultCalibration())
	}
	if app.store == nil {
		return nil, fmt.Errorf("store is required: use WithStore option")
	}

	app.collector = NewCollector(app.store, app.calcs, app.logger)
	return app, nil
}

// Collector returns the retrieval-and-calculation engine.
func (a *App) Collector() *Collector {
	return a.collector
}

// Logger returns the logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
