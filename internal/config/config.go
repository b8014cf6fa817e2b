// Package config defines the engine's configuration surface: the
// typed shape that a wrapping CLI (spec §6) populates from flags, plus
// optional YAML-file and environment-variable overrides for batch or
// repeated invocations, grounded on the teacher's viper-backed
// Load/Default pair.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// InputKind selects how the loader should interpret the input file.
type InputKind string

const (
	KindAuto      InputKind = "auto"
	KindAdjacency InputKind = "adjacency"
	KindFinding   InputKind = "finding"
)

// RenderMode selects the output sink.
type RenderMode string

const (
	RenderNone      RenderMode = "none"
	RenderSVG       RenderMode = "svg"
	RenderPNG       RenderMode = "png"
	RenderSimpleSVG RenderMode = "simple-svg"
)

// EdgeLabelMode controls whether/how edge labels are drawn.
type EdgeLabelMode string

const (
	EdgeLabelNone EdgeLabelMode = "none"
	EdgeLabelHover EdgeLabelMode = "hover"
	EdgeLabelText EdgeLabelMode = "text"
)

// LayoutKind selects the layout algorithm.
type LayoutKind string

const (
	LayoutForce   LayoutKind = "force"
	LayoutCircle  LayoutKind = "circle"
	LayoutLayered LayoutKind = "layered"
	LayoutTree    LayoutKind = "tree"
	LayoutTime    LayoutKind = "time"
)

// RankDir controls axis orientation for the layered layouts.
type RankDir string

const (
	RankTB RankDir = "TB"
	RankLR RankDir = "LR"
)

type InputConfig struct {
	Path         string    `yaml:"path"`
	Kind         InputKind `yaml:"kind"`
	FindingPath  string    `yaml:"finding_path"`
	FindingIndex int       `yaml:"finding_index"`
}

type FilterConfig struct {
	EdgeTypes   []string `yaml:"edge_types"`
	VertexTypes []string `yaml:"vertex_types"`
	ThroughEdge []string `yaml:"through_edge"`
	Match       string   `yaml:"match"`
	Limit       int      `yaml:"limit"`
	StartTS     string   `yaml:"start_ts"`

	// IOAOnly applies subgraph.PruneToIOA after seed traversal (spec
	// §4.4): narrows the subgraph to what's structurally connected to
	// an indicator-of-attack-tagged edge, ignoring time ordering.
	IOAOnly bool `yaml:"ioa_only"`

	// SystemProcessPrefixes resolves spec §9's open question: the
	// system-process predicate is configuration, not a hard-coded
	// constant. Comparison is case-insensitive.
	SystemProcessPrefixes []string `yaml:"system_process_prefixes"`
}

type SeedConfig struct {
	Focus    string `yaml:"focus"`
	ProcName string `yaml:"proc_name"`
}

type LayoutConfig struct {
	Layout      LayoutKind `yaml:"layout"`
	Iterations  int        `yaml:"iterations"`
	Seed        int64      `yaml:"seed"`
	LayerEdge   []string   `yaml:"layer_edge"`
	RankDir     RankDir    `yaml:"rankdir"`
	LayerGap    float64    `yaml:"layer_gap"`
	NodeGap     float64    `yaml:"node_gap"`
	NodePadding float64    `yaml:"node_padding"`
}

type RenderConfig struct {
	Mode      RenderMode    `yaml:"mode"`
	Image     string        `yaml:"image"`
	Dot       string        `yaml:"dot"`
	JSONOut   string        `yaml:"json_out"`
	EdgeLabel EdgeLabelMode `yaml:"edge_label"`
	EdgeCurve float64       `yaml:"edge_curve"`
	MaxSize   float64       `yaml:"max_size"`
	Legend    bool          `yaml:"legend"`
}

type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Directory string `yaml:"directory"`
}

// Config is the engine's full configuration surface.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Filter FilterConfig `yaml:"filter"`
	Seed   SeedConfig   `yaml:"seed"`
	Layout LayoutConfig `yaml:"layout"`
	Render RenderConfig `yaml:"render"`
	Cache  CacheConfig  `yaml:"cache"`
}

// Default returns the configuration with every default named in spec §6.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Input: InputConfig{
			Path:         "output/adjacency.jsonl",
			Kind:         KindAuto,
			FindingIndex: -1,
		},
		Filter: FilterConfig{
			VertexTypes:           []string{"proc", "file", "net"},
			Limit:                 2000,
			SystemProcessPrefixes: []string{`c:\windows\system32\`, `c:\windows\syswow64\`},
		},
		Layout: LayoutConfig{
			Layout:      LayoutForce,
			Iterations:  200,
			Seed:        7,
			LayerEdge:   []string{"ParentOfEdge"},
			RankDir:     RankTB,
			LayerGap:    180,
			NodeGap:     200,
			NodePadding: 28,
		},
		Render: RenderConfig{
			Mode:      RenderNone,
			Dot:       "output/adjacency.dot",
			EdgeLabel: EdgeLabelText,
			EdgeCurve: 40,
			MaxSize:   2400,
			Legend:    true,
		},
		Cache: CacheConfig{
			Directory: filepath.Join(homeDir, ".incgraph", "cache"),
		},
	}
}

// Load reads an optional YAML config file and applies INCGRAPH_*
// environment overrides on top of Default(). A missing file is not an
// error - callers almost always run with flags alone, and batch
// pipelines opt into a file when they want repeatable invocations.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("INCGRAPH")
	v.AutomaticEnv()

	cfg := Default()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("incgraph")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".incgraph"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save marshals cfg to YAML and writes it to path, creating parent
// directories as needed. Used by the CLI's config-init command to
// seed a starting file a user can then hand-edit, the same role
// credentials.go's saveConfigFile plays for the teacher's keychain
// fallback file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}
