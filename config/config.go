package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"gridpath-server/pathfinding"
	"gridpath-server/render"
)

// Config holds server and CLI configuration loaded from environment variables.
type Config struct {
	HTTPAddr      string
	GRPCAddr      string
	MapsDir       string
	StaticDir     string // Empty disables the static viewer
	TickInterval  time.Duration // Interval between autoplay ticks
	MaxExpansions int
	AllowDiagonal bool
	ImageScale    int
	MongoURI      string // Empty selects the in-memory run store
	MongoDatabase string
	JWTSecret     string // Empty disables auth on mutating routes
	JWTIssuer     string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	CORSOrigins   []string
}

// LoadConfig reads an optional .env file from the working directory, then
// the environment. Unset variables take their defaults.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] Could not load .env: %v", err)
	}
	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:      getEnv("GRPC_ADDR", ":9090"),
		MapsDir:       getEnv("MAPS_DIR", "maps"),
		StaticDir:     getEnv("STATIC_DIR", ""),
		TickInterval:  parseDuration(getEnv("TICK_INTERVAL", "250ms"), 250*time.Millisecond),
		MaxExpansions: parseInt(getEnv("MAX_EXPANSIONS", ""), pathfinding.DefaultMaxExpansions),
		AllowDiagonal: getEnv("ALLOW_DIAGONAL", "false") == "true",
		ImageScale:    parseInt(getEnv("IMAGE_SCALE", ""), render.DefaultScale),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DB", "gridpath"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTIssuer:     getEnv("JWT_ISSUER", "gridpath-server"),
		ReadTimeout:   parseDuration(getEnv("API_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:  parseDuration(getEnv("API_WRITE_TIMEOUT", "15s"), 15*time.Second),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}
	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET not set; session routes are unauthenticated")
	}
	return cfg
}

// SearchOptions returns the pathfinding options implied by the config.
func (c Config) SearchOptions() []pathfinding.Option {
	return []pathfinding.Option{
		pathfinding.WithDiagonal(c.AllowDiagonal),
		pathfinding.WithMaxExpansions(c.MaxExpansions),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
