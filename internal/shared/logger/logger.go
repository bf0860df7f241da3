package logger

import (
	"go.uber.org/zap"
)

// Init builds the process logger and installs it as the zap global so
// packages constructed without an explicit logger inherit it.
func Init(production bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if production {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
