package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"

	"github.com/vocalab/speech-coach/internal/analysis"
	"github.com/vocalab/speech-coach/internal/handlers"
	"github.com/vocalab/speech-coach/internal/transcription"
	"github.com/vocalab/speech-coach/internal/types"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Limits struct {
		MaxUploadMB int `yaml:"max_upload_mb"`
	} `yaml:"limits"`

	Transcription struct {
		Backend        string `yaml:"backend"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`

		Whisper struct {
			Model   string `yaml:"model"`
			TempDir string `yaml:"temp_dir"`
		} `yaml:"whisper"`

		Google struct {
			CredentialsFile string `yaml:"credentials_file"`
			Bucket          string `yaml:"bucket"`
			LanguageCode    string `yaml:"language_code"`
			PollSeconds     int    `yaml:"poll_seconds"`
		} `yaml:"google"`
	} `yaml:"transcription"`

	Analysis struct {
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"analysis"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	config, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(config.Logging.Level)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY is not set")
	}
	openaiClient := openai.NewClient(apiKey)

	// Transcription backend
	backendKind := types.BackendKind(config.Transcription.Backend)
	backend, err := transcription.New(context.Background(), backendKind, transcription.FactoryConfig{
		OpenAI:                openaiClient,
		WhisperModel:          config.Transcription.Whisper.Model,
		TempDir:               config.Transcription.Whisper.TempDir,
		GoogleCredentialsFile: config.Transcription.Google.CredentialsFile,
		GoogleBucket:          config.Transcription.Google.Bucket,
		GoogleLanguageCode:    config.Transcription.Google.LanguageCode,
		GooglePollInterval:    time.Duration(config.Transcription.Google.PollSeconds) * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", config.Transcription.Backend).Msg("Failed to initialize transcription backend")
	}
	transcriber := transcription.NewService(backend)
	log.Info().Str("backend", string(backendKind)).Msg("Transcription backend ready")

	// Analysis orchestrator
	orchestrator := analysis.NewOrchestrator(openaiClient, config.Analysis.Model)

	transcribeTimeout := time.Duration(config.Transcription.TimeoutSeconds) * time.Second
	analyzeTimeout := time.Duration(config.Analysis.TimeoutSeconds) * time.Second

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:         config.Limits.MaxUploadMB * 1024 * 1024,
		StreamRequestBody: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	transcribeHandler := handlers.NewTranscribeHandler(transcriber, transcribeTimeout)
	analyzeHandler := handlers.NewAnalyzeHandler(orchestrator, analyzeTimeout)
	streamHandler := handlers.NewStreamHandler(transcriber, transcribeTimeout)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"backend": string(backendKind),
		})
	})

	app.All("/transcribe", transcribeHandler.Handle)
	app.All("/analyze", analyzeHandler.Handle)
	app.Get("/drills", handlers.ListDrills)
	app.Get("/ws/transcribe", websocket.New(streamHandler.Handle))

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Info().Str("addr", addr).Msg("Server starting")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info().Msg("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// setupLogging configures the global zerolog logger
func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// loadConfig loads configuration from YAML file
func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	if config.Limits.MaxUploadMB <= 0 {
		config.Limits.MaxUploadMB = 25
	}
	if config.Transcription.TimeoutSeconds <= 0 {
		config.Transcription.TimeoutSeconds = 120
	}
	if config.Analysis.TimeoutSeconds <= 0 {
		config.Analysis.TimeoutSeconds = 60
	}

	return &config, nil
}
