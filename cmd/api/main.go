package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"captionstudio/internal/config"
	"captionstudio/internal/database"
	"captionstudio/internal/domain/caption"
	"captionstudio/internal/domain/upload"
	"captionstudio/internal/middleware"
	"captionstudio/internal/platform/instagram"
	"captionstudio/internal/platform/openai"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&upload.Upload{}, &caption.CaptionRecord{}); err != nil {
		log.Fatal(err)
	}

	instaClient := instagram.NewClient(instagram.Config{
		APIKey:  cfg.RapidAPIKey,
		BaseURL: cfg.InstagramBaseURL,
	})

	modelClient, err := openai.NewClient(openai.Config{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		Model:           cfg.OpenAIModel,
		MaxOutputTokens: cfg.OpenAIMaxOutputTokens,
	})
	if err != nil {
		log.Fatal(err)
	}

	uploadRepo := upload.NewRepository(db)
	uploadService := upload.NewService(uploadRepo, cfg.UploadDir, cfg.UploadRetention)

	captionRepo := caption.NewRepository(db)
	captionService := caption.NewService(instaClient, modelClient, uploadService, captionRepo)
	captionHandler := caption.NewHandler(captionService)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	captionHandler.RegisterRoutes(r)

	// Single-page upload form.
	r.StaticFile("/", "./web/static/index.html")

	log.Printf("caption service listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
