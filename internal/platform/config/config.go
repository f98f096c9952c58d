package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FileName  = "spinwheel.yaml"
	EnvPrefix = "SPINWHEEL_"
)

type Config struct {
	DataDir    string `yaml:"-" validate:"required"`
	RosterPath string `yaml:"-"`
	DBPath     string `yaml:"-"`
	LogPath    string `yaml:"-"`

	EventName string         `yaml:"event_name"`
	LogLevel  string         `yaml:"log_level" validate:"oneof=trace debug info warn error off"`
	LogFormat string         `yaml:"log_format" validate:"oneof=text json"`
	Spin      SpinConfig     `yaml:"spin"`
	Motion    MotionConfig   `yaml:"motion"`
	Cues      CueConfig      `yaml:"cues"`
	Remote    RemoteConfig   `yaml:"remote"`
	Announce  AnnounceConfig `yaml:"announce"`
}

type SpinConfig struct {
	Mode            string        `yaml:"mode" validate:"oneof=uniform weighted"`
	Theme           string        `yaml:"theme" validate:"oneof=standard suspenseful dramatic playful funny"`
	Duration        time.Duration `yaml:"duration" validate:"gte=0"`
	PreRoll         time.Duration `yaml:"pre_roll" validate:"gte=0"`
	RevealDelay     time.Duration `yaml:"reveal_delay" validate:"gte=0"`
	RemoveAfterWin  bool          `yaml:"remove_after_win"`
	ShuffleRoster   bool          `yaml:"shuffle_roster"`
	MinLandingCards int           `yaml:"min_landing_cards" validate:"gte=1"`
	MsPerCard       int           `yaml:"ms_per_card" validate:"gte=1"`
	TrailingCards   int           `yaml:"trailing_cards" validate:"gte=0"`
}

// MotionConfig is expressed in terminal columns: one column is the unit of
// track position.
type MotionConfig struct {
	CardWidth    float64 `yaml:"card_width" validate:"gt=0"`
	Gap          float64 `yaml:"gap" validate:"gte=0"`
	MarkerOffset float64 `yaml:"marker_offset"`
	IdleSpeed    float64 `yaml:"idle_speed" validate:"gt=0"`
	ShuffleSpeed float64 `yaml:"shuffle_speed" validate:"gtfield=IdleSpeed"`
	WrapCards    int     `yaml:"wrap_cards" validate:"gte=1"`
	FPS          int     `yaml:"fps" validate:"gte=10,lte=240"`
}

type CueConfig struct {
	Muted  bool   `yaml:"muted"`
	Sink   string `yaml:"sink" validate:"oneof=bell plugin none"`
	Plugin string `yaml:"plugin" validate:"required_if=Sink plugin"`
}

type RemoteConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type AnnounceConfig struct {
	DiscordWebhookURL string `yaml:"discord_webhook_url" validate:"omitempty,url"`
}

func Defaults(dataDir string) Config {
	return Config{
		DataDir:    dataDir,
		RosterPath: filepath.Join(dataDir, "roster.yaml"),
		DBPath:     filepath.Join(dataDir, ".spinwheel", "history.db"),
		LogPath:    filepath.Join(dataDir, ".spinwheel", "spinwheel.log"),
		EventName:  "Prize Draw",
		LogLevel:   "info",
		LogFormat:  "text",
		Spin: SpinConfig{
			Mode:            "uniform",
			Theme:           "standard",
			Duration:        6 * time.Second,
			PreRoll:         1500 * time.Millisecond,
			RevealDelay:     800 * time.Millisecond,
			MinLandingCards: 30,
			MsPerCard:       100,
			TrailingCards:   8,
		},
		Motion: MotionConfig{
			CardWidth:    16,
			Gap:          2,
			IdleSpeed:    0.25,
			ShuffleSpeed: 3,
			WrapCards:    10,
			FPS:          60,
		},
		Cues: CueConfig{Sink: "bell"},
	}
}

// New layers defaults, <data>/spinwheel.yaml, <data>/.env and SPINWHEEL_*
// variables, then validates the result.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	cfg := Defaults(dataDir)

	raw, err := os.ReadFile(filepath.Join(dataDir, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", FileName, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}

	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FrameInterval converts Motion.FPS into a tick interval.
func (c Config) FrameInterval() time.Duration {
	if c.Motion.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Motion.FPS)
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"EVENT_NAME":      &cfg.EventName,
		"LOG_LEVEL":       &cfg.LogLevel,
		"LOG_FORMAT":      &cfg.LogFormat,
		"MODE":            &cfg.Spin.Mode,
		"THEME":           &cfg.Spin.Theme,
		"CUE_SINK":        &cfg.Cues.Sink,
		"CUE_PLUGIN":      &cfg.Cues.Plugin,
		"REMOTE_ADDR":     &cfg.Remote.Addr,
		"DISCORD_WEBHOOK": &cfg.Announce.DiscordWebhookURL,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	bools := map[string]*bool{
		"MUTED":            &cfg.Cues.Muted,
		"REMOVE_AFTER_WIN": &cfg.Spin.RemoveAfterWin,
		"SHUFFLE_ROSTER":   &cfg.Spin.ShuffleRoster,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
			}
			*dst = b
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "DURATION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sDURATION %q: %w", EnvPrefix, v, err)
		}
		cfg.Spin.Duration = d
	}
	return nil
}
