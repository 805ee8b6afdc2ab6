package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tierboard/internal/ingest"
	"github.com/mesh-intelligence/tierboard/internal/paths"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyRedisAddr      = "redis.addr"
	cfgKeyRedisKey       = "redis.key"
	cfgKeyLogLevel       = "log_level"
	cfgKeyImportMaxBytes = "import.max_bytes"
	cfgKeyServerAddr     = "server.addr"

	envPrefix = "TIERBOARD"

	defaultServerAddr = ":8080"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# tierboard configuration

# Storage backend: file, sqlite or redis
backend: file

# Data directory (optional; overridable by --data-dir)
# data_dir:

redis:
  # redis://host:port/db or host:port[,password=...][,ssl=true]
  addr: ""
  key: tierListState

# debug, info, warn, error
log_level: info

import:
  # Per-file ceiling for image imports, in bytes
  max_bytes: 10485760

server:
  addr: ":8080"
`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. A missing file is not an error. Every key except
// data_dir can be overridden from the environment with the TIERBOARD_ prefix,
// dots replaced by underscores (TIERBOARD_REDIS_ADDR).
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendFile)
	v.SetDefault(cfgKeyRedisKey, types.DefaultRedisKey)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyImportMaxBytes, ingest.DefaultMaxBytes)
	v.SetDefault(cfgKeyServerAddr, defaultServerAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	// data_dir is resolved by paths.ResolveDataDir and has no binding here.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{cfgKeyBackend, cfgKeyRedisAddr, cfgKeyRedisKey, cfgKeyLogLevel, cfgKeyImportMaxBytes, cfgKeyServerAddr} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates config.yaml if it does not exist.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// recordInitChoices stores backend and, when set, dataDir in the config file
// at path. Other keys and comments in the file are kept.
func recordInitChoices(path, backend, dataDir string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc.Kind != yaml.DocumentNode {
		doc = yaml.Node{Kind: yaml.DocumentNode}
	}
	if len(doc.Content) == 0 {
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config %s: top level is not a mapping", path)
	}

	setScalar(root, cfgKeyBackend, backend)
	if dataDir != "" {
		setScalar(root, cfgKeyDataDir, dataDir)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// setScalar sets key to a string value in mapping node m, appending the key
// when m lacks it.
func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		v := m.Content[i+1]
		v.Kind, v.Tag, v.Value, v.Content, v.Style = yaml.ScalarNode, "!!str", value, nil, 0
		return
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}
