// Package configloader layers a YAML file, a .env file and process environment into a typed config.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

type Validator interface {
	Validate() error
}

// Options locates the configuration sources. Zero values fall back to config.yaml and .env
// in the working directory.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load reads the configuration of serviceName from the default sources.
// Environment variables are expected as <SERVICENAME>_<SECTION>_<KEY>, e.g. STOREFRONT_SERVER_PORT.
// <SERVICENAME>_CONFIG_FILE overrides the YAML file location.
func Load[T Validator](serviceName string) (T, error) {
	return LoadWith[T](serviceName, Options{
		ConfigFile: os.Getenv(strings.ToUpper(serviceName) + "_CONFIG_FILE"),
	})
}

// LoadWith reads the configuration of serviceName. Later sources override earlier ones:
// YAML file, then .env file, then process environment.
func LoadWith[T Validator](serviceName string, opts Options) (T, error) {
	var cfg T
	k := koanf.New(".")

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = defaultConfigFile
	}
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))

	// 1. Load configuration from yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	// 2. Load environment variables from .env file
	envTransformer := keyTransformer(envPrefix)
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	// 4. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 5. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// keyTransformer maps STOREFRONT_SERVER_PORT to server.port.
func keyTransformer(envPrefix string) func(string) string {
	lowerPrefix := strings.ToLower(envPrefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, lowerPrefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
