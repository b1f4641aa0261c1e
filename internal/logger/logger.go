// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// Hosts write lifecycle and error events to one JSON log per day under
// `<root>/<dir>/YYYY-MM-DD.log`.  When Console is set (typically an
// interactive TTY) the same events are teed, colorized, to stdout.
// Rotation, compression, and retention are handled by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Paths.Root, cfg.Logging)
//	if err != nil { … }
//	log.Infow("host online", "addr", addr)
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Errors are written to the same sink via `ErrorOutput`.
// • Oxford commas, two spaces after periods.
package logger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

// Options is the `logging` config section.
type Options struct {
	Dir        string `koanf:"dir"`
	Level      string `koanf:"level"`
	Console    bool   `koanf:"console"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups *int   `koanf:"max_backups"` // nil → 7; 0 keeps every rotated file
	MaxAgeDays int    `koanf:"max_age_days"`
}

// ApplyDefaults fills unset fields: logs/, info, 50 MB, 7 backups, 14 days.
// An explicit max_backups of 0 is kept; Lumberjack then prunes by age only.
func (o *Options) ApplyDefaults() {
	if o.Dir == "" {
		o.Dir = "logs"
	}
	if o.Level == "" {
		o.Level = "info"
	}
	if o.MaxSizeMB == 0 {
		o.MaxSizeMB = 50
	}
	if o.MaxBackups == nil {
		n := 7
		o.MaxBackups = &n
	}
	if o.MaxAgeDays == 0 {
		o.MaxAgeDays = 14
	}
}

func (o Options) Validate() error {
	return validation.Check(
		validation.Field("Dir", o.Dir, validation.Required()),
		validation.Field("Level", o.Level, validation.Required(),
			validation.OneOf("debug", "info", "warn", "error")),
		validation.Field("MaxSizeMB", o.MaxSizeMB, validation.Range(1, 10240)),
		validation.Field("MaxBackups", o.backups(), validation.Range(0, 1000)),
		validation.Field("MaxAgeDays", o.MaxAgeDays, validation.Range(1, 3650)),
	)
}

func (o Options) backups() int {
	if o.MaxBackups == nil {
		return 0
	}
	return *o.MaxBackups
}

// New returns a *zap.SugaredLogger that writes JSON under rootDir/opts.Dir.
// A relative Dir is resolved against rootDir.  The logger is installed as
// the process-wide default via zap.ReplaceGlobals.
func New(rootDir string, opts Options) (*zap.SugaredLogger, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	logDir := opts.Dir
	if !filepath.IsAbs(logDir) {
		logDir = filepath.Join(rootDir, logDir)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileName := time.Now().Format("2006-01-02") + ".log"
	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.backups(),
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), level),
	}

	if opts.Console {
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.LowercaseColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
		zap.AddCaller(),
	).Sugar()

	// Make this the global logger so zap.S() works everywhere after startup.
	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "level", opts.Level, "console", opts.Console, "dir", logDir)
	return z, nil
}

// Bootstrap installs a console-only development logger for the window
// before config is loaded.
func Bootstrap() *zap.SugaredLogger {
	z, err := zap.NewDevelopment()
	if err != nil {
		z = zap.NewNop()
	}
	zap.ReplaceGlobals(z)
	return z.Sugar()
}
