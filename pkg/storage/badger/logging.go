package badger

import (
	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// zapAdapter adapts zap.SugaredLogger to badger.Logger
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func (z *zapAdapter) Errorf(format string, args ...interface{}) {
	z.sugar.Errorf(format, args...)
}

func (z *zapAdapter) Warningf(format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}

func (z *zapAdapter) Infof(format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}

func (z *zapAdapter) Debugf(format string, args ...interface{}) {
	z.sugar.Debugf(format, args...)
}

func newLogger(logger *zap.Logger) badgerdb.Logger {
	return &zapAdapter{sugar: logger.Sugar()}
}
