package main

import (
	"os"

	"github.com/sunghoonkim81/sul-calendar-web/config"
	"github.com/sunghoonkim81/sul-calendar-web/routes"
)

func main() {
	config.InitDB()
	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
