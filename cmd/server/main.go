package main

import (
	"log"
	"os"
	"strings"

	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/database"
	"github.com/SheaLine/Crows-Peak-Map-sub000/internal/routes"
)

func main() {
	// Init database
	database.InitDB()

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8008"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	log.Printf("Server starting on port %s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/register")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/equipment")
	log.Println("  GET    /api/equipment/:id")
	log.Println("  POST   /api/equipment")
	log.Println("  PUT    /api/equipment/:id")
	log.Println("  DELETE /api/equipment/:id")
	log.Println("  GET    /api/equipment/:id/attachments")
	log.Println("  POST   /api/equipment/:id/attachments")
	log.Println("  PATCH  /api/equipment/:id/attachments/reorder")
	log.Println("  DELETE /api/attachments/:id")
	log.Println("  GET    /api/equipment/:id/logs")
	log.Println("  POST   /api/equipment/:id/logs")
	log.Println("  GET    /api/equipment/:id/summary")
	log.Println("  PUT    /api/equipment/:id/summary")
	log.Println("  POST   /api/logout")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /objects/*path")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
