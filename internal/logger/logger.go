package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Init настраивает глобальный логгер. В production пишем JSON,
// в остальных окружениях — текст с таймстампами.
func Init(env string) {
	Log.SetOutput(os.Stdout)

	if env == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		Log.SetLevel(logrus.DebugLevel)
	}
}
