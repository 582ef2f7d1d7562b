package analytics

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Collector records workflow dry run outcomes for offline analysis.
type Collector interface {
	RecordDryRun(workflowId string, scheduled bool, found int)
	RecordDryRunFailure(workflowId string, reason string)
}

type LogFileCollector struct {
	fileName string
	logger   *zap.Logger
}

var _ Collector = new(LogFileCollector)

func NewLogFileCollector(fileName string) (*LogFileCollector, error) {
	enccoderConfig := zap.NewProductionEncoderConfig()
	enccoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	enccoderConfig.StacktraceKey = "" // to hide stacktrace info
	fileEncoder := zapcore.NewJSONEncoder(enccoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	writer := zapcore.AddSync(logFile)
	defaultLogLevel := zapcore.InfoLevel
	core := zapcore.NewTee(zapcore.NewCore(fileEncoder, writer, defaultLogLevel))
	logger := zap.New(core)
	return &LogFileCollector{
		fileName: fileName,
		logger:   logger,
	}, nil
}

func (lc *LogFileCollector) RecordDryRun(workflowId string, scheduled bool, found int) {
	lc.logger.Info("dryrun", zap.String("workflow", workflowId), zap.Bool("scheduled", scheduled), zap.Int("found", found))
}

func (lc *LogFileCollector) RecordDryRunFailure(workflowId string, reason string) {
	lc.logger.Info("dryrun_failure", zap.String("workflow", workflowId), zap.String("reason", reason))
}

// NoopCollector is used when no analytics file is configured.
type NoopCollector struct{}

var _ Collector = NoopCollector{}

func (NoopCollector) RecordDryRun(workflowId string, scheduled bool, found int) {}

func (NoopCollector) RecordDryRunFailure(workflowId string, reason string) {}
