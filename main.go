package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"coin-economy-system/handlers"
	"coin-economy-system/models"
	"coin-economy-system/services"
	"coin-economy-system/utils"
	"coin-economy-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, icons only
	})

	// CORS: the WebApp origin plus whatever ALLOWED_ORIGINS adds
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.CompletedTask{},
		&models.Transaction{},
		&models.Task{},
		&models.Game{},
		&models.Tournament{},
		&models.TournamentParticipant{},
		&models.TournamentWinner{},
		&models.Withdrawal{},
		&models.Admin{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	economyService := services.NewEconomyService(db)
	userService := services.NewUserService(db)
	tapService := services.NewTapService(db, economyService)
	taskService := services.NewTaskService(db, economyService)
	gameService := services.NewGameService(db, economyService)
	referralService := services.NewReferralService(db, economyService)
	tournamentService := services.NewTournamentService(db, economyService)
	withdrawalService := services.NewWithdrawalService(db, economyService)
	adminService := services.NewAdminService(db, economyService)

	if err := adminService.Bootstrap(); err != nil {
		log.Fatal("failed to bootstrap admin account:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	botWorker, err := workers.NewBotWorker(userService, referralService, tapService)
	if err != nil {
		log.Fatal("failed to start bot worker:", err)
	}
	if botWorker != nil {
		withdrawalService.Notifier = botWorker
		go botWorker.Start(ctx)
	}

	sched, err := tournamentService.StartTournamentScheduler()
	if err != nil {
		log.Fatal("failed to start tournament scheduler:", err)
	}
	defer func() { _ = sched.Shutdown() }()

	handlers.SetupAuthRoutes(app, userService, referralService)
	handlers.SetupUserRoutes(app, userService, referralService)
	handlers.SetupCoinRoutes(app, economyService, tapService, userService)
	handlers.SetupTaskRoutes(app, taskService)
	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupTournamentRoutes(app, tournamentService)
	handlers.SetupWithdrawalRoutes(app, withdrawalService)
	handlers.SetupAdminRoutes(app, adminService, economyService, withdrawalService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
