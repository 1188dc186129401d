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
	confPath := flag.String("conf", "", "配置文件路径（可选）")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		panic(err)
	}

	log.Init(cfg.Log.File, cfg.Log.Debug)

	store, err := localstore.Open(cfg.Local.Path + ".admin")
	if err != nil {
		zap.L().Fatal("failed to open local store", zap.Error(err))
	}
	defer store.Close()

	app := iris.New()
	server.RegisterAdminRoutes(app, cfg, store)

	addr := cfg.AdminServer.Addr()
	zap.L().Info("admin server listening", zap.String("addr", addr))
	if err := app.Run(iris.Addr(addr), iris.WithoutServerError(iris.ErrServerClosed)); err != nil {
		zap.L().Fatal("failed to run admin server", zap.Error(err))
	}
}
