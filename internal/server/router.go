package server

import (
	"errors"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/kataras/iris/v12"

	"github.com/vaixxakh/Lumiere-Lighting/internal/auth"
	"github.com/vaixxakh/Lumiere-Lighting/internal/config"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/cart"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/order"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/product"
	"github.com/vaixxakh/Lumiere-Lighting/internal/datamodels/user"
	"github.com/vaixxakh/Lumiere-Lighting/internal/infra/mq"
	"github.com/vaixxakh/Lumiere-Lighting/internal/infra/redis"
	"github.com/vaixxakh/Lumiere-Lighting/internal/middleware"
	"github.com/vaixxakh/Lumiere-Lighting/internal/repository/localstore"
	"github.com/vaixxakh/Lumiere-Lighting/internal/service"
)

// RegisterRoutes 注册前台（客户端）HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config, store *localstore.Store) {
	// 初始化基础设施
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	// 服务
	cartSvc := service.NewCartService(store)
	wishSvc := service.NewWishlistService(store)
	ledgerSvc := service.NewLedgerService(store, mqConn)
	syncSvc := service.NewSyncService(cfg.Remote.BaseURL, ledgerSvc)
	catalogSvc := service.NewCatalogService(cfg.Remote.BaseURL)
	accountSvc := service.NewAccountService(cfg.Remote.BaseURL, store, &cfg.JWT, &cfg.Admin)

	tokenCache := auth.NewTokenCache(redisClient, 10*time.Minute)
	bus := EventBus.New()

	// 每个在线用户一个订单视图轮询器，登出/超时由调用方停掉
	pollers := newPollerSet(func(email string) *service.OrderPoller {
		return service.NewOrderPoller(syncSvc, bus, email, cfg.Sync.PollIntervalSeconds)
	})
	iris.RegisterOnInterrupt(pollers.stopAll)

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 注册 / 登录
	api.Post("/register", func(ctx iris.Context) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		u, token, err := accountSvc.Register(req.Name, req.Email, req.Password)
		if errors.Is(err, user.ErrEmailTaken) {
			ctx.StopWithJSON(409, iris.Map{"code": 409, "msg": err.Error()})
			return
		}
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"user": u, "token": token}})
	})

	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		u, token, err := accountSvc.Login(req.Email, req.Password)
		if errors.Is(err, user.ErrInvalidCredentials) {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": err.Error()})
			return
		}
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"user": u, "token": token}})
	})

	// 需要登录的接口
	authAPI := api.Party("/", func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		claims, hit := tokenCache.Get(token)
		if !hit {
			var err error
			claims, err = auth.ParseToken(&cfg.JWT, token)
			if err != nil {
				ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
				return
			}
			tokenCache.Set(token, claims)
		}
		ctx.Values().Set("email", claims.Email)
		ctx.Values().Set("name", claims.Name)
		ctx.Next()
	})

	// 商品目录（支持分类与关键字过滤）
	authAPI.Get("/products", func(ctx iris.Context) {
		list, err := catalogSvc.List(ctx.URLParam("category"), ctx.URLParam("q"))
		if err != nil {
			ctx.StopWithJSON(502, iris.Map{"code": 502, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 商品详情
	authAPI.Get("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		p, err := catalogSvc.GetByID(id)
		if errors.Is(err, product.ErrNotFound) {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "product not found"})
			return
		}
		if err != nil {
			ctx.StopWithJSON(502, iris.Map{"code": 502, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	// ---------- 购物车 ----------

	cartView := func(lines []cart.Line) iris.Map {
		return iris.Map{
			"lines": lines,
			"total": cart.Total(lines),
			"count": cart.Count(lines),
		}
	}

	authAPI.Get("/cart", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		ctx.JSON(iris.Map{"code": 0, "data": cartView(cartSvc.Lines(email))})
	})

	authAPI.Post("/cart", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		var p product.Product
		if err := ctx.ReadJSON(&p); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		lines, err := cartSvc.Add(email, &p)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": cartView(lines)})
	})

	authAPI.Put("/cart/{id:int64}/quantity", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		lines, err := cartSvc.SetQuantity(email, id, req.Quantity)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": cartView(lines)})
	})

	authAPI.Delete("/cart/{id:int64}", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		id, _ := ctx.Params().GetInt64("id")
		lines, err := cartSvc.Remove(email, id)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": cartView(lines)})
	})

	// ---------- 心愿单 ----------

	authAPI.Get("/wishlist", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		entries := wishSvc.Entries(email)
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"entries": entries, "count": len(entries)}})
	})

	authAPI.Post("/wishlist", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		var p product.Product
		if err := ctx.ReadJSON(&p); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		entries, err := wishSvc.Add(email, &p)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"entries": entries, "count": len(entries)}})
	})

	authAPI.Delete("/wishlist/{id:int64}", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		id, _ := ctx.Params().GetInt64("id")
		entries, err := wishSvc.Remove(email, id)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"entries": entries, "count": len(entries)}})
	})

	// ---------- 结算 ----------

	authAPI.Post("/checkout", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		var req checkoutRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := req.validate(); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}

		items := req.checkoutItems(cartSvc.Lines(email))
		if len(items) == 0 {
			// 空购物车在结算口拦下，不进台账
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "cart is empty"})
			return
		}

		o, err := ledgerSvc.CreateOrder(email, items, req.shipping(), req.PaymentMethod, computeTotals(items))
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}

		// 立即购买不动购物车，整车结算后清空
		if req.BuyNow == nil {
			if err := cartSvc.Clear(email); err != nil {
				ctx.Application().Logger().Warnf("clear cart after checkout failed: %v", err)
			}
		}
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})

	// ---------- 订单 ----------

	// 订单列表：启动（或复用）该用户的轮询器，返回其当前视图
	authAPI.Get("/orders", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		p := pollers.get(email)
		ctx.JSON(iris.Map{"code": 0, "data": p.Orders()})
	})

	// 订单跟踪：本地台账查询
	authAPI.Get("/orders/{id:string}", func(ctx iris.Context) {
		o, err := ledgerSvc.GetOrderByID(ctx.Params().Get("id"))
		if errors.Is(err, order.ErrNotFound) {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "order not found"})
			return
		}
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})

	// 发票下载（纯文本）
	authAPI.Get("/orders/{id:string}/invoice", func(ctx iris.Context) {
		o, err := ledgerSvc.GetOrderByID(ctx.Params().Get("id"))
		if errors.Is(err, order.ErrNotFound) {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "order not found"})
			return
		}
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.Header("Content-Disposition", "attachment; filename=Invoice-"+o.ID+".txt")
		ctx.ContentType("text/plain; charset=utf-8")
		_, _ = ctx.WriteString(o.Invoice())
	})

	// 登出：停掉轮询器并清理本地会话
	authAPI.Post("/logout", func(ctx iris.Context) {
		email := ctx.Values().GetString("email")
		pollers.stop(email)
		_ = accountSvc.Logout()
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

}
