package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	MirrorBackendFile  = "file"
	MirrorBackendRedis = "redis"

	DeviceBackendMemory  = "memory"
	DeviceBackendLibrary = "library"
)

type Config struct {
	App struct {
		Name     string `envconfig:"NAME"      default:"albumsync"`
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Timezone string `envconfig:"TIMEZONE"  default:"UTC"`
	} `envconfig:"APP"`

	Gallery struct {
		DefaultCollection  string `envconfig:"DEFAULT_COLLECTION"  default:"Gallery"`
		PlaceholderURI     string `envconfig:"PLACEHOLDER_URI"     default:"https://via.placeholder.com/150"`
		PreviewConcurrency int    `envconfig:"PREVIEW_CONCURRENCY" default:"4"`
		RefreshAttempts    int    `envconfig:"REFRESH_ATTEMPTS"    default:"3"`
	} `envconfig:"GALLERY"`

	Mirror struct {
		Backend  string `envconfig:"BACKEND"   default:"file"`
		FilePath string `envconfig:"FILE_PATH" default:"data/mirror.json"`
		LockPath string `envconfig:"LOCK_PATH" default:"data/mirror.lock"`
	} `envconfig:"MIRROR"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST" default:"localhost"`
				Port     string `envconfig:"PORT" default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		// TTL of persisted mirror keys in seconds, zero keeps them forever.
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	Device struct {
		Backend           string `envconfig:"BACKEND"            default:"library"`
		Root              string `envconfig:"ROOT"               default:"library"`
		Inbox             string `envconfig:"INBOX"              default:"inbox"`
		PageSize          int    `envconfig:"PAGE_SIZE"`
		PermissionGranted bool   `envconfig:"PERMISSION_GRANTED" default:"true"`
	} `envconfig:"DEVICE"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Sync engine configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Warn().Err(err).Msg("Configuration initialized without .env file")
		}
	}

	return &conf
}
