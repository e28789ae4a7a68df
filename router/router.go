package router

import (
	"github.com/labstack/echo/v4"

	"agentrix/pkg/middleware"
)

func New(
	e *echo.Echo,
	formCtrl interface {
		Index(echo.Context) error
		Submit(echo.Context) error
		State(echo.Context) error
	},
	advisoryCtrl interface {
		GetAdvice(echo.Context) error
		List(echo.Context) error
		Get(echo.Context) error
		Stats(echo.Context) error
		Export(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)

	// browser form, one session per AGX_SID cookie
	ui := e.Group("", middleware.Session())
	ui.GET("/", formCtrl.Index)
	ui.POST("/advice", formCtrl.Submit)
	ui.GET("/advice/state", formCtrl.State)

	api := e.Group("/api")
	api.GET("/health", healthCtrl.Health)
	api.POST("/get-advice", advisoryCtrl.GetAdvice)
	api.GET("/advisories", advisoryCtrl.List)
	api.GET("/advisories/stats", advisoryCtrl.Stats)
	api.GET("/advisories/export.xlsx", advisoryCtrl.Export)
	api.GET("/advisories/:id", advisoryCtrl.Get)
	return e
}
