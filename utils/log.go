package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLog 初始化全局 zerolog，级别由 SSPANEL_LOG_LEVEL 控制
func InitLog() {
	level := zerolog.InfoLevel
	if v := os.Getenv("SSPANEL_LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.DateTime,
	}).Level(level).With().Timestamp().Logger()
}
