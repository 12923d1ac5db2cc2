package logger

import (
	"go.uber.org/zap"
)

// Log is the process-wide logger. It discards output until Init is called.
var Log = zap.NewNop().Sugar()

func Init(env string) error {
	var (
		base *zap.Logger
		err  error
	)

	if env == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	Log = base.Sugar()
	return nil
}

func Sync() {
	_ = Log.Sync()
}
