package main

import (
	"log"

	"gameroom-backend/internal/catalog"
	"gameroom-backend/internal/config"
	"gameroom-backend/internal/database"
	"gameroom-backend/internal/handlers"
	"gameroom-backend/internal/middleware"
	"gameroom-backend/internal/services"
	"gameroom-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Game Room API
// @version         1.0
// @description     Multiplayer room coordination: lobbies, readiness, live quiz sessions
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()
	locks := services.NewLockTable()

	catalogService := catalog.NewService(db)
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(db, cfg, hub, catalogService, userService, locks)
	reaper := services.NewReaper(db, hub, locks, cfg.RoomIdleTimeout)
	roomService := services.NewRoomService(db, cfg, hub, catalogService, userService, sessionService, reaper, locks)
	rosterService := services.NewRosterService(db, cfg, hub, userService, locks)

	// Waiting rooms from a previous process lost their timers with it.
	reaper.ReapStale()

	roomHandler := handlers.NewRoomHandler(roomService, rosterService, sessionService)
	userHandler := handlers.NewUserHandler(userService)
	wsHandler := handlers.NewWSHandler(cfg, hub, roomService, rosterService, sessionService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/room/:code", wsHandler.HandleRoomWebSocket)

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", roomHandler.ListWaiting)
			rooms.GET("/:code", roomHandler.GetRoom)
			rooms.GET("/:code/leaderboard", roomHandler.GetLeaderboard)

			auth := rooms.Group("")
			auth.Use(middleware.UserAuth(cfg.JWTSecret))
			{
				auth.POST("", roomHandler.CreateRoom)
				auth.POST("/:code/join", roomHandler.Join)
				auth.POST("/:code/leave", roomHandler.Leave)
				auth.POST("/:code/ready", roomHandler.SetReady)
				auth.POST("/:code/start", roomHandler.StartGame)
				auth.POST("/:code/next", roomHandler.NextQuestion)
				auth.POST("/:code/buzz", roomHandler.Buzz)
				auth.POST("/:code/answer", roomHandler.SubmitAnswer)
				auth.POST("/:code/complete", roomHandler.Complete)
			}
		}

		api.GET("/users/:id", userHandler.GetUser)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
