package app

import (
	"context"
	"fmt"
	"log/slog"

	"axiapac.com/attendance/attendance/core"
	"axiapac.com/attendance/attendance/model"
	"axiapac.com/attendance/attendance/web"
	"axiapac.com/attendance/attendance/web/common"
	"axiapac.com/attendance/attendance/web/handlers/session"
	store "axiapac.com/attendance/core"
	"axiapac.com/attendance/infrastructure/communication"
	"axiapac.com/attendance/infrastructure/devops"
	"axiapac.com/attendance/infrastructure/filesystem"
	"axiapac.com/attendance/security"
	"github.com/gin-gonic/gin"
)

const (
	employeesBlob = "employees.json"
	recordsBlob   = "attendance.json"
)

// Models lists the tables owned by the relational storage drivers.
var Models = []any{&model.Employee{}, &model.AttendanceRecord{}}

type Stores struct {
	Employees store.Store[model.Employee]
	Records   store.Store[model.AttendanceRecord]
	// DB is set for relational drivers only.
	DB *store.DatabaseManager
}

func (s *Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// OpenStores builds the persistence backend named by cfg.Driver.
func OpenStores(ctx context.Context, cfg devops.StorageConfig, logLevel string) (*Stores, error) {
	switch {
	case cfg.Driver == "file":
		return &Stores{
			Employees: store.NewBlobStore[model.Employee](filesystem.NewFileBlob(cfg.DataDir, employeesBlob)),
			Records:   store.NewBlobStore[model.AttendanceRecord](filesystem.NewFileBlob(cfg.DataDir, recordsBlob)),
		}, nil

	case cfg.Driver == "s3":
		fs, err := filesystem.NewS3FileSystem(ctx, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Employees: store.NewBlobStore[model.Employee](fs.Blob(cfg.Prefix, employeesBlob)),
			Records:   store.NewBlobStore[model.AttendanceRecord](fs.Blob(cfg.Prefix, recordsBlob)),
		}, nil

	case cfg.IsDatabase():
		dm, err := store.New(cfg.Driver, cfg.DSN, cfg.MaxConnections, store.ParseLogLevel(logLevel))
		if err != nil {
			return nil, err
		}
		return &Stores{
			Employees: store.NewGormStore[model.Employee](dm.DB, "created_at, employee_id"),
			Records:   store.NewGormStore[model.AttendanceRecord](dm.DB, "sequence"),
			DB:        dm,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
}

// App holds the loaded collections and the services built on them.
type App struct {
	Config    *devops.Config
	Stores    *Stores
	Directory *core.Directory
	Ledger    *core.Ledger
	Tracker   *core.Tracker
	Limiter   *security.RateLimiter
	Notifier  communication.Notifier
}

func Open(ctx context.Context, cfg *devops.Config) (*App, error) {
	stores, err := OpenStores(ctx, cfg.Storage, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a, err := build(ctx, cfg, stores)
	if err != nil {
		stores.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *devops.Config, stores *Stores) (*App, error) {
	if stores.DB != nil {
		if err := stores.DB.Migrate(ctx, Models...); err != nil {
			return nil, err
		}
	}

	directory, err := core.NewDirectory(ctx, stores.Employees, nil)
	if err != nil {
		return nil, err
	}
	ledger, err := core.NewLedger(ctx, stores.Records)
	if err != nil {
		return nil, err
	}

	policy, err := security.NewIPPolicy(cfg.Office.AllowedNetworks, cfg.Office.AllowLoopback)
	if err != nil {
		return nil, err
	}
	limiter := security.NewRateLimiter(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)

	slog.Info("attendance loaded",
		"employees", len(directory.List()),
		"records", len(ledger.AllRecords()),
		"allowedNetworks", policy.AllowedNetworks(),
		"timezone", cfg.Location().String())

	return &App{
		Config:    cfg,
		Stores:    stores,
		Directory: directory,
		Ledger:    ledger,
		Tracker:   core.NewTracker(ledger, directory, policy, limiter, core.WithLocation(cfg.Location())),
		Limiter:   limiter,
		Notifier: communication.NewNotifier(cfg.Slack.Token, communication.SlackOption{
			InfoChannelID:  cfg.Slack.InfoChannel,
			ErrorChannelID: cfg.Slack.ErrorChannel,
		}),
	}, nil
}

// Router builds the HTTP surface from the admin and server settings.
func (a *App) Router() (*gin.Engine, error) {
	secret, err := security.DecodeSecret(a.Config.Admin.SigningSecret)
	if err != nil {
		return nil, fmt.Errorf("admin.signingSecret: %w", err)
	}

	base := common.Handler{Tracker: a.Tracker, Directory: a.Directory, Notifier: a.Notifier}
	return web.NewRouter(base, web.RouterOptions{
		ReportTitle:    a.Config.Office.Name,
		TrustedProxies: a.Config.Server.TrustedProxies,
		Session: session.Options{
			Email:        a.Config.Admin.Email,
			PasswordHash: a.Config.Admin.PasswordHash,
			Secret:       secret,
			TTL:          a.Config.Admin.SessionTTL,
			SecureCookie: a.Config.Admin.SecureCookie,
		},
	})
}

func (a *App) Close() error {
	return a.Stores.Close()
}
