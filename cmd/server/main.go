package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"debate-server/internal/config"
	"debate-server/internal/database"
	delivery "debate-server/internal/delivery/http"
	"debate-server/internal/delivery/http/middleware"
	"debate-server/internal/repository"
	"debate-server/pkg/ai"
	"debate-server/pkg/retry"
)

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		// Логируем как предупреждение, т.к. в production .env может не использоваться
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	// Инициализация логгера
	initLogger()

	// Парсинг флагов командной строки
	env := flag.String("env", "development", "Environment: development, production")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load(*env)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Менеджер подключения к MongoDB. Само подключение откроется лениво,
	// при первом запросе к репозиториям.
	dbManager := database.NewManager(database.Config{
		URI:                    cfg.Database.URI,
		Database:               cfg.Database.Name,
		MaxPoolSize:            uint64(cfg.Database.MaxPoolSize),
		MinPoolSize:            uint64(cfg.Database.MinPoolSize),
		ConnectTimeout:         time.Duration(cfg.Database.ConnectTimeoutSeconds) * time.Second,
		SocketTimeout:          time.Duration(cfg.Database.SocketTimeoutSeconds) * time.Second,
		ServerSelectionTimeout: time.Duration(cfg.Database.ServerSelectionTimeoutSeconds) * time.Second,
		ConnectRetry: retry.Policy{
			MaxAttempts: cfg.Database.ConnectMaxAttempts,
			BaseDelay:   time.Duration(cfg.Database.ConnectBaseDelayMillis) * time.Millisecond,
			Multiplier:  2,
		},
	})

	// Пытаемся подключиться сразу, чтобы обнаружить проблемы на старте.
	// Неудача не фатальна: следующий запрос повторит подключение.
	log.Info().Msg("connecting to database...")
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := dbManager.Database(startupCtx); err != nil {
		log.Warn().Err(err).Msg("database is not reachable at startup, will retry on demand")
	}
	cancel()

	// Инициализация репозиториев
	scenarioRepo := repository.NewScenarioRepository(dbManager)
	topicRepo := repository.NewTopicRepository(dbManager)

	// Инициализация AI клиента
	aiClient := initAIClient(cfg.AI)
	if cfg.AI.APIKey == "" {
		log.Warn().Msg("AI_API_KEY is not set, generation endpoints will return an error")
	}

	// Инициализация HTTP обработчиков
	handlers := delivery.New(scenarioRepo, topicRepo, aiClient, cfg.IsProduction())

	// Настройка маршрутов
	router := mux.NewRouter()
	apiRouter := router.PathPrefix(cfg.Server.BasePath).Subrouter()
	apiRouter.Use(middleware.Logging)
	apiRouter.Use(middleware.Metrics)
	handlers.RegisterRoutes(apiRouter)

	// Настройка CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Создание HTTP сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      c.Handler(router),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Настройка плавного завершения
	gracefulShutdown(server, dbManager)
}

// initLogger настраивает глобальный логгер
func initLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Caller().Logger()

	// В режиме разработки используем более читаемый вывод
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()
	}

	// Настройка уровня логирования
	logLevel := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logLevel = lvl
	}
	zerolog.SetGlobalLevel(logLevel)
}

// initAIClient инициализирует клиент для работы с AI API
func initAIClient(cfg config.AIConfig) *ai.Client {
	return ai.New(ai.Config{
		APIKey:      cfg.APIKey,
		ModelName:   cfg.Model,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.MaxAttempts,
	})
}

// gracefulShutdown обеспечивает плавное завершение работы сервера
func gracefulShutdown(server *http.Server, dbManager *database.Manager) {
	// Ожидание сигнала остановки
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down server...")

	// Создаем контекст с таймаутом для завершения
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Остановка HTTP сервера
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Закрытие подключения к базе данных
	if err := dbManager.Close(ctx); err != nil {
		log.Error().Err(err).Msg("database shutdown failed")
	}

	log.Info().Msg("server stopped gracefully")
}
