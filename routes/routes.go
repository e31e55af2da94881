package routes

import (
	"github.com/sunghoonkim81/sul-calendar-web/config"
	"github.com/sunghoonkim81/sul-calendar-web/controllers"
	"github.com/sunghoonkim81/sul-calendar-web/middlewares"
	"github.com/sunghoonkim81/sul-calendar-web/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	hub := services.NewUpdateHub()
	records := services.NewRecordService(config.DB)
	ranking := services.NewRankingService(config.DB)
	calendar := services.NewCalendarService(config.DB, ranking)

	cal := controllers.NewCalendarController(records, calendar, hub)
	rt := controllers.NewRealtimeController(hub)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")
	{
		api.GET("/month", cal.GetMonth)
		api.POST("/update", cal.UpdateDay)
	}

	r.GET("/ws/updates", rt.UpdatesWS)

	return r
}
