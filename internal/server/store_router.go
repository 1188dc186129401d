package server

import (
	"errors"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/vaixxakh/Lumiere-Lighting/internal/config"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/user"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/mysql"
)

// RegisterStoreRoutes 注册远端权威订单库的 REST 路由
// 这是前台/后台共同依赖的权威存储：商品目录、用户集合、订单集合。
// 默认端口 3000。
func RegisterStoreRoutes(app *iris.Application, cfg *config.Config) {
	db := mysql.Init(&cfg.MySQL)

	productRepo := mysql.NewProductRepository(db)
	userRepo := mysql.NewUserRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	// ---------- 商品目录 ----------

	app.Get("/products", func(ctx iris.Context) {
		category := ctx.URLParam("category")
		if category != "" {
			list, err := productRepo.ListByCategory(ctx.Request().Context(), category)
			if err != nil {
				ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
				return
			}
			ctx.JSON(list)
			return
		}
		list, err := productRepo.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(list)
	})

	// ---------- 用户集合 ----------

	app.Get("/users", func(ctx iris.Context) {
		list, err := userRepo.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(list)
	})

	app.Post("/users", func(ctx iris.Context) {
		var u user.User
		if err := ctx.ReadJSON(&u); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		existing, err := userRepo.GetByEmail(ctx.Request().Context(), u.Email)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		if existing != nil {
			ctx.StopWithJSON(409, iris.Map{"code": 409, "msg": "email already registered"})
			return
		}
		if err := userRepo.Create(ctx.Request().Context(), &u); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(&u)
	})

	// ---------- 订单集合 ----------

	app.Get("/orders", func(ctx iris.Context) {
		email := ctx.URLParam("email")
		var (
			list []*order.Order
			err  error
		)
		if email != "" {
			list, err = orderRepo.ListByEmail(ctx.Request().Context(), email)
		} else {
			list, err = orderRepo.ListAll(ctx.Request().Context())
		}
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(list)
	})

	app.Get("/orders/{id:string}", func(ctx iris.Context) {
		o, err := orderRepo.GetByID(ctx.Request().Context(), ctx.Params().Get("id"))
		if errors.Is(err, order.ErrNotFound) {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "order not found"})
			return
		}
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(o)
	})

	// 本地台账推送过来的订单
	app.Post("/orders", func(ctx iris.Context) {
		var o order.Order
		if err := ctx.ReadJSON(&o); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if o.ID == "" || len(o.Items) == 0 {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "order id and items are required"})
			return
		}
		if err := orderRepo.Create(ctx.Request().Context(), &o); err != nil {
			// 订单号唯一索引兜底：重复推送/碰撞在这里显式失败
			ctx.StopWithJSON(409, iris.Map{"code": 409, "msg": err.Error()})
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(&o)
	})

	// 状态变更：追加状态日志
	app.Patch("/orders/{id:string}", func(ctx iris.Context) {
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		updated, err := orderRepo.AppendStatus(
			ctx.Request().Context(),
			ctx.Params().Get("id"),
			order.StatusEvent{Status: req.Status, At: time.Now()},
		)
		if errors.Is(err, order.ErrNotFound) {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "order not found"})
			return
		}
		if errors.Is(err, order.ErrUnknownStatus) {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(updated)
	})
}
