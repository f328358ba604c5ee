package route

import (
	"github.com/rtcchoir/choirdesk/internal/delivery/http"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type RouteConfig struct {
	App              *fiber.App
	MemberController *http.MemberController
	ReportController *http.ReportController
}

func (c *RouteConfig) SetupRoute() {
	api := c.App.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	memberGroup := api.Group("/members")
	memberGroup.Post("/", c.MemberController.Register)
	memberGroup.Get("/", c.MemberController.List)
	memberGroup.Get("/all", c.MemberController.ListAll)
	// Fixed segments must register before the /:id catch-all.
	memberGroup.Get("/search", c.MemberController.Search)
	memberGroup.Get("/search/:query", c.MemberController.SearchAll)
	memberGroup.Get("/export/pdf", c.ReportController.ExportPDF)
	memberGroup.Get("/export/csv", c.ReportController.ExportCSV)
	memberGroup.Get("/:id", c.MemberController.GetById)
	memberGroup.Put("/:id", c.MemberController.Update)
	memberGroup.Delete("/:id", c.MemberController.Delete)

	api.Get("/zones", c.MemberController.Zones)

	c.App.Get("/uploads/:filename", c.MemberController.GetUpload)

	promHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	c.App.Get("/metrics", func(c *fiber.Ctx) error {
		promHandler(c.Context())
		return nil
	})
}
