package main

import (
	"flag"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/vaixxakh/Lumiere-Lighting/internal/config"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/localstore"
	"github.com/vaixxakh/Lumiere-Lighting/internal/server"
	"github.com/vaixxakh/Lumiere-Lighting/pkg/log"
)

func main() {
	confPath := flag.String("conf", "", "配置文件路径（可选，缺省用默认配置+环境变量）")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		panic(err)
	}

	log.Init(cfg.Log.File, cfg.Log.Debug)
	zap.L().Info("log init success")

	store, err := localstore.Open(cfg.Local.Path)
	if err != nil {
		zap.L().Fatal("failed to open local store", zap.Error(err))
	}
	defer store.Close()

	app := iris.New()
	server.RegisterRoutes(app, cfg, store)

	addr := cfg.Server.Addr()
	zap.L().Info("web server listening", zap.String("addr", addr))
	if err := app.Run(iris.Addr(addr), iris.WithoutServerError(iris.ErrServerClosed)); err != nil {
		zap.L().Fatal("failed to run web server", zap.Error(err))
	}
}
