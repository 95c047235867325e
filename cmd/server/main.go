package main

import (
	"log"

	"github.com/liemhoanglong/voting-game-server/internal/config"
	"github.com/liemhoanglong/voting-game-server/internal/database"
	"github.com/liemhoanglong/voting-game-server/internal/game"
	"github.com/liemhoanglong/voting-game-server/internal/handlers"
	"github.com/liemhoanglong/voting-game-server/internal/middleware"
	"github.com/liemhoanglong/voting-game-server/internal/pubsub"
	"github.com/liemhoanglong/voting-game-server/internal/services"
	"github.com/liemhoanglong/voting-game-server/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title           Voting Game API
// @version         1.0
// @description     API for real-time planning poker sessions
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

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(opt)

	store := storage.NewRedis(redisClient)
	bus := pubsub.NewRedis(redisClient)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	teamService := services.NewTeamService(db)
	gameService := game.NewService(store, bus, teamService)

	authHandler := handlers.NewAuthHandler(authService)
	teamHandler := handlers.NewTeamHandler(teamService)
	gameHandler := handlers.NewGameHandler(gameService)
	wsHandler := handlers.NewWSHandler(authService, gameService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws/game/:id", wsHandler.HandleGameWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		teams := api.Group("/teams")
		teams.Use(middleware.JWTAuth(authService))
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id/game", gameHandler.GetGameState)

			teams.GET("/:id/cards", gameHandler.ListCards)
			teams.POST("/:id/cards", gameHandler.CreateCard)
			teams.POST("/:id/cards/import", gameHandler.ImportCards)
			teams.PUT("/:id/cards/:cardId", gameHandler.UpdateCard)
			teams.DELETE("/:id/cards/:cardId", gameHandler.RemoveCard)
			teams.DELETE("/:id/cards", gameHandler.RemoveAllCards)
			teams.POST("/:id/cards/:cardId/select", gameHandler.SelectCard)

			teams.POST("/:id/pick", gameHandler.PickCard)
			teams.POST("/:id/pick-and-show", gameHandler.PickCardAndShow)
			teams.POST("/:id/show", gameHandler.ShowCards)
			teams.POST("/:id/restart", gameHandler.RestartGame)
			teams.POST("/:id/timer", gameHandler.StartTimer)

			teams.POST("/:id/host/transfer", gameHandler.TransferHost)
			teams.POST("/:id/host/claim", gameHandler.ClaimHost)
			teams.POST("/:id/host/reassign", gameHandler.ReassignHost)

			teams.POST("/:id/role", gameHandler.ChangeRole)
			teams.POST("/:id/invite", gameHandler.Invite)
			teams.POST("/:id/ping", gameHandler.PingUser)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
