package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/droid-games/scoreboard/internal/app"
	"github.com/droid-games/scoreboard/internal/auth"
	"github.com/droid-games/scoreboard/internal/logger"
)

var (
	version = "dev"
)

// config holds the validated command line configuration
type config struct {
	Port     int    `validate:"min=1,max=65535"`
	DBPath   string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
}

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "scoreboard.db", "SQLite database path")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	apiKey := flag.String("apikey", "", "Hardware API key (hardware endpoints disabled if not set)")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `DroidGames Scoreboard - Robot Arena Scoring Server

Usage:
  scoreboard [options]

Options:
  -port int      HTTP server port (default 8080)
  -db string     SQLite database path (default "scoreboard.db")
  -adminpw str   Admin password (auto-generated if not set)
  -apikey str    Hardware API key (hardware endpoints disabled if not set)
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -version       Show version and exit
  -help          Show this help message

Examples:
  scoreboard                          # Run on port 8080 with scoreboard.db
  scoreboard -port 80 -db /data/arena.db
  scoreboard -adminpw secret123 -apikey arena-box-key

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("scoreboard %s\n", version)
		os.Exit(0)
	}

	cfg := config{Port: *port, DBPath: *dbPath, LogLevel: *logLevel}
	if err := validator.New().Struct(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Setup admin authentication
	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password, *apiKey)

	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))

	a, err := app.New(appLog, *dbPath, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", *port)
	appLog.Info("Admin password", "password", password)
	if *apiKey == "" {
		appLog.Warn("No hardware API key configured, hardware endpoints will reject all requests")
	}

	if err := a.Run(addr); err != nil {
		log.Fatal(err)
	}
}
