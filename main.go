package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/xmrio/django-sspanel/app/web"
	"github.com/xmrio/django-sspanel/manager"
	"github.com/xmrio/django-sspanel/utils"
)

var (
	configFile  = flag.String("c", "config.json", "config file")
	openBrowser = flag.Bool("open", false, "open web panel in browser")
)

const (
	Version = "v1.0.0"
)

func main() {
	flag.Parse()
	// .env 可选，存在时覆盖环境变量
	godotenv.Load()
	utils.InitLog()
	config, err := utils.LoadRootConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}
	manager.Start(config, Version)
	web.StartWeb(config, *openBrowser)
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, os.Kill, syscall.SIGTERM)
	<-osSignals
}
