// Package runtime wires configuration, storage and services for one
// studiodesk command.
package runtime

import (
	"github.com/manav03panchal/studiodesk/internal/assessment"
	"github.com/manav03panchal/studiodesk/internal/auth"
	"github.com/manav03panchal/studiodesk/internal/config"
	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/logging"
	"github.com/manav03panchal/studiodesk/internal/mirror"
	"github.com/manav03panchal/studiodesk/internal/output"
	"github.com/manav03panchal/studiodesk/internal/photo"
	"github.com/manav03panchal/studiodesk/internal/schedule"
	"github.com/manav03panchal/studiodesk/internal/storage"
)

// Remote paths of the mirrored tables.
const (
	RemoteAgenda      = "data/agenda.csv"
	RemoteAssessments = "data/avaliacoes.csv"
	RemotePhotoTable  = "data/imagens.csv"
)

// Context holds the application runtime context.
type Context struct {
	Config    *config.Config
	DB        *storage.DB
	Formatter *output.Formatter
	Mirror    mirror.Mirror
	Gate      *auth.Gate

	// Repositories
	UndoRepo        *storage.UndoRepo
	MirrorStateRepo *storage.MirrorStateRepo

	// Services
	Schedule    *schedule.Service
	Assessments *assessment.Service
	Photos      *photo.Store

	// Debug mode
	Debug bool

	lock *storage.FileLock
}

// Options configures the runtime context.
type Options struct {
	ConfigFile string
	DataDir    string // overrides data_dir from config
	InMemory   bool   // keep the state database in memory
	Format     output.Format
	ColorMode  output.ColorMode
	Debug      bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// LoadConfig reads the configuration and sets up logging from it.
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, errors.NewUserErrorWithField("config", opts.ConfigFile,
			"Cannot read config file: "+err.Error(),
			"Run 'studiodesk config path' to see where the config is read from")
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	if opts.Debug {
		logging.InitDebug()
	} else {
		lc := logging.DefaultConfig()
		lc.Level = logging.ParseLevel(cfg.Log.Level, lc.Level)
		lc.JSON = cfg.Log.JSON
		logging.Init(lc)
	}
	return cfg, nil
}

// New creates a new runtime context. It takes the data directory lock,
// which Close releases.
func New(opts Options) (c *Context, err error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	if err := storage.EnsureDirectory(cfg.DataDir); err != nil {
		return nil, errors.NewSystemErrorWithOp("open data dir", "cannot create data directory", err)
	}
	if warning := storage.LowSpaceWarning(cfg.DataDir); warning != "" {
		logging.Warn(warning, logging.KeyPath, cfg.DataDir)
	}

	lock := storage.NewFileLock(cfg.DataDir)
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = lock.Release()
		}
	}()

	// Open database
	var db *storage.DB
	if opts.InMemory {
		db, err = storage.Open(storage.Options{InMemory: true})
	} else {
		db, err = storage.OpenState(cfg.DataDir)
	}
	if err != nil {
		return nil, err
	}

	// Create repositories
	undoRepo := storage.NewUndoRepo(db)
	mirrorState := storage.NewMirrorStateRepo(db)

	m := mirror.New(cfg.Mirror, mirrorState)
	hook := mirror.Hook(m)

	agenda := &storage.Table{Path: cfg.AgendaPath(), RemotePath: RemoteAgenda, Columns: schedule.Columns, AfterSave: hook}
	records := &storage.Table{Path: cfg.AssessmentsPath(), RemotePath: RemoteAssessments, Columns: assessment.Columns, AfterSave: hook}
	photoRows := &storage.Table{Path: cfg.PhotoTablePath(), RemotePath: RemotePhotoTable, Columns: assessment.PhotoColumns, AfterSave: hook}
	photos := photo.NewStore(cfg.PhotoDir(), m, cfg.Photos.Mode == config.PhotosRemote)

	// Create formatter
	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	logging.DebugLog("runtime ready",
		logging.KeyPath, cfg.DataDir,
		"mirror", m.Enabled(),
		"photos", cfg.Photos.Mode)

	return &Context{
		Config:          cfg,
		DB:              db,
		Formatter:       formatter,
		Mirror:          m,
		Gate:            auth.NewGate(cfg.Access),
		UndoRepo:        undoRepo,
		MirrorStateRepo: mirrorState,
		Schedule:        schedule.NewService(agenda, undoRepo, cfg.ClockPolicy()),
		Assessments:     assessment.NewService(records, photoRows, photos, undoRepo),
		Photos:          photos,
		Debug:           opts.Debug,
		lock:            lock,
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	var errs []error
	if c.Mirror != nil {
		c.Mirror.Close()
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.lock != nil {
		errs = append(errs, c.lock.Release())
	}
	return errors.Join(errs...)
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// Authorize checks the access key. An empty key is asked for with prompt,
// unless the gate is open.
func (c *Context) Authorize(key string, prompt func() (string, error)) error {
	if c.Gate.Open() {
		return nil
	}
	if key == "" && prompt != nil {
		var err error
		if key, err = prompt(); err != nil {
			return errors.NewUserError("Cannot read access key", "Pass --key").WithCause(errors.ErrAccessDenied)
		}
	}
	return c.Gate.Check(key)
}
