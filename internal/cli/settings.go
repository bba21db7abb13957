package cli

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/matzehuels/gitxmas/pkg/errors"
	"github.com/matzehuels/gitxmas/pkg/pipeline"
	"github.com/matzehuels/gitxmas/pkg/server"
)

// Cache backends selectable with cache.backend / GITXMAS_CACHE_BACKEND.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

const (
	settingsName = ".gitxmas"
	envPrefix    = "GITXMAS"
)

// CacheSettings selects and configures the pipeline cache.
type CacheSettings struct {
	Backend       string `mapstructure:"backend"`
	Dir           string `mapstructure:"dir"`
	RedisAddr     string `mapstructure:"redis_addr"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	// Namespace prefixes every cache key so that several users or hosts can
	// share one Redis or Mongo backend.
	Namespace string `mapstructure:"namespace"`
}

// ServerSettings configures `gitxmas serve`.
type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

// Settings holds machine-level configuration shared by every command.
// Values come from .gitxmas.toml, GITXMAS_* env vars and built-in defaults,
// in that order of precedence (env wins over the file).
type Settings struct {
	MaxCommits int            `mapstructure:"max_commits"`
	Cache      CacheSettings  `mapstructure:"cache"`
	Server     ServerSettings `mapstructure:"server"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MaxCommits: pipeline.DefaultMaxCommits,
		Cache: CacheSettings{
			Backend:       BackendFile,
			MongoDatabase: "gitxmas",
		},
		Server: ServerSettings{Addr: server.DefaultAddr},
	}
}

// LoadSettings reads settings from path, or from .gitxmas.toml in the
// working directory or $HOME when path is empty. A missing default file is
// not an error; a missing explicit file is.
func LoadSettings(path string) (Settings, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read settings")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode settings")
	}
	if s.MaxCommits < 0 {
		return Settings{}, errors.New(errors.ErrCodeInvalidConfig, "max_commits must be non-negative, got %d", s.MaxCommits)
	}
	return s, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault("max_commits", d.MaxCommits)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.mongo_uri", d.Cache.MongoURI)
	v.SetDefault("cache.mongo_database", d.Cache.MongoDatabase)
	v.SetDefault("cache.namespace", d.Cache.Namespace)
	v.SetDefault("server.addr", d.Server.Addr)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(settingsName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	// cache.redis_addr is read from GITXMAS_CACHE_REDIS_ADDR.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
