// Package logger configures the global zerolog logger: console, rolling files and DataDog shipping.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// dataDog is the running DataDog writer, closed by Shutdown. localOutput holds the
// remaining outputs the global logger falls back to.
var (
	dataDog     *DataDogWriter //nolint:gochecknoglobals
	localOutput io.Writer      //nolint:gochecknoglobals
	dataDogMu   sync.Mutex     //nolint:gochecknoglobals
)

// LevelWriter routes entries to one writer per level group:
// trace, debug and info, warn, error and above.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures the global logger from cfg. Every entry carries the app, service
// and env fields. With no output enabled the logger discards everything.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	writers, dw, err := outputs(cfg)
	if err != nil {
		return err
	}

	local := zerolog.MultiLevelWriter(writers...)
	output := local

	if dw != nil {
		output = zerolog.MultiLevelWriter(local, dw)
	}

	stack := logLevel == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx := zerolog.New(output).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().Timestamp().
		Str("app", cfg.AppName).
		Str("service", cfg.ServiceName)

	if cfg.LogEnv != "" {
		ctx = ctx.Str("env", cfg.LogEnv)
	}

	switch {
	case cfg.ReportCaller && stack:
		ctx = ctx.Stack()
	case cfg.ReportCaller:
		ctx = ctx.Caller()
	}

	setDataDog(dw, local)

	log.Logger = ctx.Logger()

	return nil
}

// outputs builds the local writers and, when enabled, the DataDog writer.
func outputs(cfg Log) ([]io.Writer, *DataDogWriter, error) {
	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		fw, err := newRollingLevelFiles(cfg)
		if err != nil {
			return nil, nil, err
		}

		writers = append(writers, fw)
	}

	if !cfg.DataDog.Enabled {
		return writers, nil, nil
	}

	if cfg.DataDog.ServiceName == "" {
		cfg.DataDog.ServiceName = cfg.ServiceName
	}

	dw, err := NewDataDogWriter(cfg.DataDog)
	if err != nil {
		return nil, nil, err
	}

	return writers, dw, nil
}

// Shutdown points the global logger back to the local outputs, then flushes and
// stops the DataDog writer if one is running.
func Shutdown() {
	dataDogMu.Lock()
	defer dataDogMu.Unlock()

	if dataDog == nil {
		return
	}

	if localOutput != nil {
		log.Logger = log.Logger.Output(localOutput)
	}

	_ = dataDog.Close()
	dataDog = nil
}

// setDataDog replaces the running DataDog writer, closing the previous one.
func setDataDog(w *DataDogWriter, local io.Writer) {
	dataDogMu.Lock()
	defer dataDogMu.Unlock()

	if dataDog != nil {
		_ = dataDog.Close()
	}

	dataDog = w
	localOutput = local
}

// RollingFile returns a size rotated log file below dir.
func RollingFile(dir, name string, maxSize, maxAge, maxBackups int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, name),
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
	}
}

// newRollingLevelFiles writes one rotated file per level group.
func newRollingLevelFiles(cfg Log) (io.Writer, error) {
	f := cfg.File

	if err := os.MkdirAll(f.Path, 0o750); err != nil { //nolint: mnd
		return nil, errors.Wrap(err, "can't create log directory "+f.Path)
	}

	return &LevelWriter{
		ErrorWriter: RollingFile(f.Path, f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxAge, f.ErrorMaxBackups),
		InfoWriter:  RollingFile(f.Path, f.InfoLog, f.InfoMaxSize, f.InfoMaxAge, f.InfoMaxBackups),
		TraceWriter: RollingFile(f.Path, f.TraceLog, f.TraceMaxSize, f.TraceMaxAge, f.TraceMaxBackups),
		WarnWriter:  RollingFile(f.Path, f.WarnLog, f.WarnMaxSize, f.WarnMaxAge, f.WarnMaxBackups),
	}, nil
}

// NewConsoleWriter writes info and below to stdout and everything else to stderr,
// optionally through zerolog.ConsoleWriter.
func NewConsoleWriter(cfg Log) io.Writer {
	out := func(w io.Writer) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return w
		}

		return zerolog.ConsoleWriter{Out: w, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		ErrorWriter: out(os.Stderr),
		InfoWriter:  out(os.Stdout),
		TraceWriter: out(os.Stderr),
		WarnWriter:  out(os.Stderr),
	}
}
