package server

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/John-Robertt/filmboard/internal/domain"
)

//go:embed web/index.html
var indexHTML string

// Lister 是列表流水线（每次调用同步执行一次完整抓取）。
type Lister interface {
	List(ctx context.Context) domain.ListingResponse
}

// Options 是服务端的只读选项。
type Options struct {
	// Source 是当前配置的列表源名称（用于 /api/health）。
	Source string
	// DisableAccessLog 关闭 logger 中间件（测试用）。
	DisableAccessLog bool
}

// New 构造 fiber 应用并注册全部路由。
//
// 路由：
// - GET /            页面（内置前端过滤/排序逻辑）
// - GET /api/films   列表（/api/scrape 为兼容别名）
// - GET /api/health  健康检查
func New(l Lister, o Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "filmboard",
		ServerHeader: "filmboard",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if !o.DisableAccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New())

	h := &handler{lister: l, source: o.Source}
	app.Get("/", h.page)

	api := app.Group("/api")
	api.Get("/health", h.health)
	api.Get("/films", h.films)
	api.Get("/scrape", h.films)

	return app
}

type handler struct {
	lister Lister
	source string
}

// films 同步执行一次流水线。失败时返回 502，但 body 仍是统一形状（data 为空数组）。
func (h *handler) films(c fiber.Ctx) error {
	resp := h.lister.List(c.Context())
	if !resp.Success {
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}

func (h *handler) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"source": h.source,
	})
}

func (h *handler) page(c fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(indexHTML)
}

// errorHandler 兜底：/api 下的任何错误（含 recover 捕获的 panic）都输出统一形状的失败响应。
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled error", "path", c.Path(), "status", code, "error", err)
	}

	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(code).JSON(domain.Failed(err.Error()))
	}
	return c.Status(code).SendString(err.Error())
}
