// Package config defines terse's typed configuration tree and the
// environment-based loader that populates it. The TOML file format and its
// editor UI are external collaborators (spec.md §1); this package only has
// to produce the Config the core consumes, so an environment/.env loader
// stands in for "whatever produced this Config" during development and
// testing.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mode selects which paths execute_run may take.
type Mode string

const (
	ModeHybrid     Mode = "hybrid"
	ModeFastOnly   Mode = "fast-only"
	ModeSmartOnly  Mode = "smart-only"
	ModePassthrough Mode = "passthrough"
)

// Thresholds gates which path a captured output takes.
type Thresholds struct {
	PassthroughBelowBytes int
	SmartPathAboveBytes   int
}

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	Window    int
	Threshold float64
	Cooldown  time.Duration
}

// GitLimits bounds the git optimizer.
type GitLimits struct {
	DiffMaxPlusMinusLines int
	DiffMaxLines          int
}

// FileLimits bounds the file optimizer.
type FileLimits struct {
	LsMaxEntries  int
	LsMaxItems    int
	FindMaxResults int
	CatMaxLines   int
	CatHeadLines  int
	CatTailLines  int
	WcMaxLines    int
	TreeMaxLines  int
}

// BuildLimits bounds the build/test/lint optimizer.
type BuildLimits struct {
	TestMaxFailureLines int
	TestMaxErrorLines   int
	TestMaxWarnings     int
	LintMaxIssueLines   int
}

// DockerLimits bounds the docker optimizer.
type DockerLimits struct {
	LogsMaxTail    int
	LogsMaxErrors  int
	InspectMaxLines int
}

// GenericLimits bounds the whitespace/generic fallback optimizer.
type GenericLimits struct {
	MinSizeBytes int
	MaxLines     int
}

// LLMConfig configures the optional smart path's Ollama client.
type LLMConfig struct {
	Enabled bool
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Config is the full typed tree the core consumes. It is input-only: the
// core never mutates it.
type Config struct {
	Enabled    bool
	Mode       Mode
	SafeMode   bool
	Thresholds Thresholds
	Breaker    BreakerConfig
	Passthrough []string

	Git     GitLimits
	File    FileLimits
	Build   BuildLimits
	Docker  DockerLimits
	Generic GenericLimits
	LLM     LLMConfig

	PreprocessMaxBytes int
}

// Default returns terse's built-in defaults, matching the reference
// implementation's documented values for every limit spec.md §4 names.
func Default() Config {
	return Config{
		Enabled:  true,
		Mode:     ModeHybrid,
		SafeMode: false,
		Thresholds: Thresholds{
			PassthroughBelowBytes: 2048,
			SmartPathAboveBytes:   8192,
		},
		Breaker: BreakerConfig{
			Window:    10,
			Threshold: 0.5,
			Cooldown:  10 * time.Minute,
		},
		Git: GitLimits{
			DiffMaxPlusMinusLines: 80,
			DiffMaxLines:          200,
		},
		File: FileLimits{
			LsMaxEntries:   50,
			LsMaxItems:     100,
			FindMaxResults: 100,
			CatMaxLines:    200,
			CatHeadLines:   50,
			CatTailLines:   20,
			WcMaxLines:     20,
			TreeMaxLines:   200,
		},
		Build: BuildLimits{
			TestMaxFailureLines: 60,
			TestMaxErrorLines:   40,
			TestMaxWarnings:     10,
			LintMaxIssueLines:   80,
		},
		Docker: DockerLimits{
			LogsMaxTail:     40,
			LogsMaxErrors:   20,
			InspectMaxLines: 100,
		},
		Generic: GenericLimits{
			MinSizeBytes: 2048,
			MaxLines:     200,
		},
		LLM: LLMConfig{
			Enabled: true,
			Model:   "qwen2.5-coder:7b",
			BaseURL: "http://localhost:11434",
			Timeout: 60 * time.Second,
		},
		PreprocessMaxBytes: 8192,
	}
}

// Load builds a Config from defaults, a best-effort .env load (mirroring
// the reference's own godotenv.Load(".env") call site), and TERSE_*/
// OLLAMA_* environment overrides.
func Load() Config {
	_ = godotenv.Load(".env")
	c := Default()

	getBool := func(key string, cur *bool) {
		if v, ok := os.LookupEnv(key); ok {
			*cur = v == "1" || strings.EqualFold(v, "true")
		}
	}
	getInt := func(key string, cur *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*cur = n
			}
		}
	}
	getFloat := func(key string, cur *float64) {
		if v, ok := os.LookupEnv(key); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*cur = f
			}
		}
	}
	getString := func(key string, cur *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*cur = v
		}
	}
	getDuration := func(key string, cur *time.Duration, unitSeconds bool) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				if unitSeconds {
					*cur = time.Duration(n) * time.Second
				} else {
					*cur = time.Duration(n)
				}
			}
		}
	}

	getBool("TERSE_ENABLED", &c.Enabled)
	getBool("TERSE_SAFE_MODE", &c.SafeMode)
	if v, ok := os.LookupEnv("TERSE_MODE"); ok {
		c.Mode = Mode(v)
	}
	getInt("TERSE_PASSTHROUGH_BELOW_BYTES", &c.Thresholds.PassthroughBelowBytes)
	getInt("TERSE_SMART_PATH_ABOVE_BYTES", &c.Thresholds.SmartPathAboveBytes)
	getInt("TERSE_PREPROCESS_MAX_BYTES", &c.PreprocessMaxBytes)

	getInt("TERSE_BREAKER_WINDOW", &c.Breaker.Window)
	getFloat("TERSE_BREAKER_THRESHOLD", &c.Breaker.Threshold)
	getDuration("TERSE_BREAKER_COOLDOWN_SECS", &c.Breaker.Cooldown, true)

	getBool("TERSE_LLM_ENABLED", &c.LLM.Enabled)
	getString("OLLAMA_MODEL", &c.LLM.Model)
	getString("OLLAMA_BASE_URL", &c.LLM.BaseURL)
	getDuration("TERSE_LLM_TIMEOUT_SECS", &c.LLM.Timeout, true)

	if v, ok := os.LookupEnv("TERSE_PASSTHROUGH_LIST"); ok && v != "" {
		c.Passthrough = strings.Split(v, ",")
	}

	return c
}

// Validate checks the invariants spec.md §3 assumes the core can rely on.
func (c Config) Validate() error {
	if c.Thresholds.PassthroughBelowBytes > c.Thresholds.SmartPathAboveBytes {
		return errInvariant("output_thresholds.passthrough_below_bytes must be <= smart_path_above_bytes")
	}
	if c.Breaker.Window < 1 {
		return errInvariant("circuit_breaker.window must be >= 1")
	}
	if c.Breaker.Threshold <= 0 || c.Breaker.Threshold >= 1 {
		return errInvariant("circuit_breaker.threshold must be in (0,1)")
	}
	if c.Breaker.Cooldown < 0 {
		return errInvariant("circuit_breaker.cooldown_secs must be >= 0")
	}
	return nil
}

type invariantError string

func (e invariantError) Error() string { return string(e) }

func errInvariant(msg string) error { return invariantError(msg) }
