package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Classifier backends.
const (
	BackendONNX   = "onnx"
	BackendRemote = "remote"
)

// Config holds all stresscheck configuration.
type Config struct {
	Server     ServerConfig
	Classifier ClassifierConfig
	Output     OutputConfig
	Log        LogConfig
	// ScalerPath points at a YAML/JSON scaling table. Empty uses the built-in one.
	ScalerPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// ClassifierConfig selects and configures the model backend.
type ClassifierConfig struct {
	Backend        string // "onnx" or "remote"
	ModelPath      string
	RuntimeLibrary string
	RemoteURL      string
	RemoteTimeout  time.Duration
}

// OutputConfig controls batch output.
type OutputConfig struct {
	Verbosity string // "minimal", "standard", "full"
	Pretty    bool
}

// LogConfig controls the default slog logger.
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// LoadDotenv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotenv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	modelPath := getenv("STRESSCHECK_MODEL_PATH", "models/mlp_model.onnx")
	return Config{
		Server: ServerConfig{
			Addr:            listenAddr(),
			AllowedOrigins:  getenvCSV("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
			RequestTimeout:  getenvDuration("STRESSCHECK_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getenvDuration("STRESSCHECK_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Classifier: ClassifierConfig{
			Backend:        strings.ToLower(getenv("STRESSCHECK_CLASSIFIER", BackendONNX)),
			ModelPath:      modelPath,
			RuntimeLibrary: getenv("STRESSCHECK_ORT_LIB", filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")),
			RemoteURL:      getenv("STRESSCHECK_REMOTE_URL", "http://localhost:8000"),
			RemoteTimeout:  getenvDuration("STRESSCHECK_REMOTE_TIMEOUT", 10*time.Second),
		},
		Output: OutputConfig{
			Verbosity: getenv("STRESSCHECK_VERBOSITY", "standard"),
			Pretty:    os.Getenv("STRESSCHECK_OUTPUT_PRETTY") == "true",
		},
		Log: LogConfig{
			Level:  getenv("STRESSCHECK_LOG_LEVEL", "info"),
			Format: getenv("STRESSCHECK_LOG_FORMAT", "json"),
		},
		ScalerPath: os.Getenv("STRESSCHECK_SCALER_PATH"),
	}
}

// listenAddr prefers STRESSCHECK_ADDR, then PORT, then :5000.
func listenAddr() string {
	if v := os.Getenv("STRESSCHECK_ADDR"); v != "" {
		return v
	}
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return ":5000"
}

// Validate checks the configuration and returns every problem found.
// Model files are only required for the backend that uses them.
func (c Config) Validate() error {
	var errs []error
	if c.Classifier.Backend == BackendONNX {
		if _, err := os.Stat(c.Classifier.ModelPath); err != nil {
			errs = append(errs, fmt.Errorf("model file not found: %s (STRESSCHECK_MODEL_PATH)", c.Classifier.ModelPath))
		}
	}
	return errors.Join(append(errs, c.ValidateSettings())...)
}

// ValidateSettings is Validate without the model file check, for commands
// that can run before a model is installed.
func (c Config) ValidateSettings() error {
	var errs []error

	switch c.Classifier.Backend {
	case BackendONNX:
	case BackendRemote:
		u, err := url.Parse(c.Classifier.RemoteURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid remote URL %q (STRESSCHECK_REMOTE_URL)", c.Classifier.RemoteURL))
		}
		if c.Classifier.RemoteTimeout <= 0 {
			errs = append(errs, fmt.Errorf("remote timeout must be positive, got %v", c.Classifier.RemoteTimeout))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown classifier backend %q (want onnx or remote)", c.Classifier.Backend))
	}

	if c.ScalerPath != "" {
		if _, err := os.Stat(c.ScalerPath); err != nil {
			errs = append(errs, fmt.Errorf("scaler file not found: %s (STRESSCHECK_SCALER_PATH)", c.ScalerPath))
		}
	}

	switch c.Output.Verbosity {
	case "minimal", "standard", "full":
	default:
		errs = append(errs, fmt.Errorf("invalid verbosity %q (want minimal, standard or full)", c.Output.Verbosity))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q (want json or text)", c.Log.Format))
	}

	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %v", c.Server.RequestTimeout))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %v", c.Server.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare integers are seconds.
		if secs := getenvInt(key, -1); secs >= 0 {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

// getenvCSV splits a comma-separated list, trimming blanks.
func getenvCSV(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
