package cmd

import (
	"database/sql"

	"github.com/quietdesk/ainotify/internal/cleanup"
	"github.com/quietdesk/ainotify/internal/config"
	"github.com/quietdesk/ainotify/internal/db"
	"github.com/quietdesk/ainotify/internal/event"
	"github.com/quietdesk/ainotify/internal/logging"
	"github.com/quietdesk/ainotify/internal/notify"
	"github.com/rotisserie/eris"
)

// newEventHandler wires up the dependencies an event handler needs for one
// invocation. The returned close function releases the database.
func newEventHandler(needsDB bool) (*event.Handler, func(), error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, nil, eris.Wrap(err, "failed to load configuration")
	}

	if err := config.EnsureDir(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		// An unwritable log file must not break event handling.
		logger = logging.NewNop()
	}

	var database *sql.DB
	closeHandler := func() {}
	if needsDB {
		database, err = db.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		closeHandler = func() {
			//nolint:errcheck // Close on process exit
			database.Close()
		}
	}

	handler := &event.Handler{
		DB:        database,
		Config:    cfg,
		Notifier:  notify.NewDesktop(cfg.Notification, logger),
		Logger:    logger,
		Marker:    cleanup.NewMarker(config.MarkerPath()),
		ExportDir: config.ExportDir(),
	}
	return handler, closeHandler, nil
}
