package server

import (
	"errors"

	"github.com/kataras/iris/v12"

	"github.com/vaixxakh/Lumiere-Lighting/internal/auth"
	"github.com/vaixxakh/Lumiere-Lighting/internal/config"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/user"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/localstore"
	"github.com/vaixxakh/Lumiere-Lighting/internal/service"
)

// RegisterAdminRoutes 注册后台管理端的 HTTP 路由
// 端口通常是 8081，与前台 Web 服务分离。后台是订单状态日志的
// 唯一写入方：改状态只走远端，远端成功才更新内存视图。
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config, store *localstore.Store) {
	ledgerSvc := service.NewLedgerService(store, nil)
	syncSvc := service.NewSyncService(cfg.Remote.BaseURL, ledgerSvc)
	accountSvc := service.NewAccountService(cfg.Remote.BaseURL, store, &cfg.JWT, &cfg.Admin)

	api := app.Party("/api")

	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 后台登录
	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, err := accountSvc.AdminLogin(req.Email, req.Password)
		if errors.Is(err, user.ErrInvalidCredentials) {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": err.Error()})
			return
		}
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token}})
	})

	// 需要管理员令牌的接口
	adminAPI := api.Party("/", func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		claims, err := auth.ParseToken(&cfg.JWT, token)
		if err != nil || !claims.Admin {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid admin token"})
			return
		}
		ctx.Next()
	})

	// ---------- 订单管理 ----------

	// 全量订单（不过滤）；远端失败直接报错，可重试
	adminAPI.Get("/orders", func(ctx iris.Context) {
		list, err := syncSvc.FetchAll()
		if err != nil {
			ctx.StopWithJSON(502, iris.Map{"code": 502, "msg": "error loading orders: " + err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 改订单状态：向状态日志追加一条记录
	adminAPI.Patch("/orders/{id:string}/status", func(ctx iris.Context) {
		id := ctx.Params().Get("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		updated, err := syncSvc.ChangeStatus(id, req.Status)
		if errors.Is(err, order.ErrUnknownStatus) {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if errors.Is(err, order.ErrNotFound) {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "order not found"})
			return
		}
		if err != nil {
			// 更新失败：内存视图保持不变，把可重试的错误交给前端
			ctx.StopWithJSON(502, iris.Map{"code": 502, "msg": "error updating order status: " + err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": updated})
	})

	// ---------- 用户管理 ----------

	adminAPI.Get("/users", func(ctx iris.Context) {
		list, err := accountSvc.ListUsers()
		if err != nil {
			ctx.StopWithJSON(502, iris.Map{"code": 502, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})
}
