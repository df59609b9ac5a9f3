// Package sql is the capability unit that opens the application's local
// SQLite database. It requires the filesystem unit to be initialized first.
package sql

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"path/filepath"
	"time"

	// SQLite driver
	_ "modernc.org/sqlite"

	"github.com/go-lynx/desktop/factory"
	"github.com/go-lynx/desktop/log"
	"github.com/go-lynx/desktop/plugins"
	"github.com/go-lynx/desktop/plugins/filesystem"
)

const (
	// Name identifies the unit.
	Name = "sql"
	// ResourceDB is the *database/sql.DB resource.
	ResourceDB = "sql.db"
	// DefaultFile is the database file name inside the data directory.
	DefaultFile = "app.db"

	driverName  = "sqlite"
	description = "local SQLite database"
	pingTimeout = 5 * time.Second
)

func init() {
	factory.GlobalPluginFactory().RegisterPlugin(Name, func() plugins.Plugin {
		return New()
	})
}

// Plugin owns the database handle.
type Plugin struct {
	plugins.Base
	file string
	db   *stdsql.DB
}

// New returns a unit opening DefaultFile.
func New() *Plugin {
	return NewWithFile(DefaultFile)
}

// NewWithFile returns a unit opening file inside the data directory.
func NewWithFile(file string) *Plugin {
	return &Plugin{
		Base: plugins.NewBase(Name, description),
		file: file,
	}
}

// Init opens and pings the database and publishes it as ResourceDB.
func (p *Plugin) Init(h plugins.Host) error {
	dir, err := filesystem.DataDir(h)
	if err != nil {
		return fmt.Errorf("sql requires the %s plugin: %w", filesystem.Name, err)
	}
	path := filepath.Join(dir, p.file)

	db, err := stdsql.Open(driverName, path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if err := h.SetResource(ResourceDB, db); err != nil {
		_ = db.Close()
		return err
	}
	p.db = db
	log.Infof("sqlite database opened: %s", path)
	return nil
}

// Close closes the database handle.
func (p *Plugin) Close() error {
	if p.db == nil {
		return nil
	}
	db := p.db
	p.db = nil
	return db.Close()
}

// DB returns the database published on h.
func DB(h plugins.Host) (*stdsql.DB, error) {
	return plugins.GetResource[*stdsql.DB](h, ResourceDB)
}
