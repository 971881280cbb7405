package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/fitgam/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFileMaxSizeMB = 50

type LoggerSetupParams struct {
	LogFileName string
	// LogFileMaxSizeMB is the rotation size, defaults to 50MB
	LogFileMaxSizeMB int
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if params.SentryEnabled {
		setupSentry(params)
	}

	if params.Environment != "" || params.SentryServerName != "" {
		logrus.AddHook(newFieldsHook(logrus.Fields{
			"env":     params.Environment,
			"service": params.SentryServerName,
		}))
	}

	logrus.SetLevel(GetLevel(params.LogLevel))
	logrus.SetOutput(logOutput(params))
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("Sentry set up successfully")
}

// logOutput is stdout when no log file is set, otherwise the rotated file (optionally tee'd to stdout).
func logOutput(params LoggerSetupParams) io.Writer {
	if params.LogFileName == "" {
		logrus.Println("writing logs only to STDOUT")
		return os.Stdout
	}

	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	logsDir := filepath.Dir(fileName)
	exists, err := pkg.PathExists(logsDir, true)
	if err != nil {
		logrus.Errorf("logs dir [%s]: %s, writing logs only to STDOUT", logsDir, err)
		return os.Stdout
	}
	if !exists {
		logrus.Warnf("logs dir [%s] does not exist, will be created", logsDir)
	}

	maxSize := params.LogFileMaxSizeMB
	if maxSize <= 0 {
		maxSize = defaultLogFileMaxSizeMB
	}
	lumberJackLogger := &lumberjack.Logger{
		Filename:  fileName,
		MaxSize:   maxSize, // megabytes
		LocalTime: false,   // UTC
		Compress:  true,
	}

	if params.LogToStdout {
		logrus.Printf("writing logs to file [%s] and STDOUT", fileName)
		return pkg.NewCombinedWriter(os.Stdout, lumberJackLogger)
	}
	logrus.Printf("writing logs to file [%s]", fileName)
	return lumberJackLogger
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}
