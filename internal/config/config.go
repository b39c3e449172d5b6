// Package config loads the shell's settings from flags, IDLE_NPU_*
// environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment variables shared with the backend process.
const (
	EnvPrefix = "IDLE_NPU"
	EnvHost   = EnvPrefix + "_HOST"
	EnvPort   = EnvPrefix + "_PORT"

	envWebView2Args     = "WEBVIEW2_ADDITIONAL_BROWSER_ARGUMENTS"
	defaultWebView2Args = "--disable-logging --log-level=3"
)

// Close policies for the main window.
const (
	ClosePolicyConfirm = "confirm"
	ClosePolicyHide    = "hide"
)

// DefaultInstancePort is the loopback port held by the running instance.
const DefaultInstancePort uint16 = 47210

// Viper keys.
const (
	keyHost            = "host"
	keyPort            = "port"
	keyPython          = "python"
	keyEntryScript     = "entry_script"
	keyProjectRoot     = "project_root"
	keySidecar         = "sidecar"
	keyDev             = "dev"
	keyExternalBackend = "external_backend"
	keyClosePolicy     = "close_policy"
	keyReadyTimeout    = "ready_timeout"
	keyDebug           = "debug"
	keyLogDir          = "log_dir"
	keyInstancePort    = "instance_port"
	keySingleInstance  = "single_instance"
)

// ErrInvalidClosePolicy is returned by Load for an unknown close policy.
var ErrInvalidClosePolicy = errors.New("invalid close policy")

// Config holds everything the shell needs at startup. It is read once and
// not modified afterwards.
type Config struct {
	Host string
	Port uint16

	// Dev selects the interpreter + entry script launch; otherwise the
	// bundled companion executable is started.
	Dev             bool
	Python          string
	EntryScript     string
	ProjectRoot     string
	Sidecar         string
	ExternalBackend bool

	ClosePolicy  string
	ReadyTimeout time.Duration

	Debug  bool
	LogDir string

	SingleInstance bool
	InstancePort   uint16
}

// InstanceAddr is the loopback address of the single-instance guard.
func (c *Config) InstanceAddr() string {
	return net.JoinHostPort(DefaultHost, strconv.Itoa(int(c.InstancePort)))
}

// Endpoint derives the backend endpoint from Host and Port.
func (c *Config) Endpoint() Endpoint {
	return NewEndpoint(c.Host, c.Port)
}

// BindFlags registers the command line flags and binds them into v.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("host", "", "Backend bind host (env "+EnvHost+")")
	fs.String("port", "", "Backend port (env "+EnvPort+")")
	fs.String("python", "", "Interpreter used in dev mode")
	fs.String("entry-script", "", "Backend entry script used in dev mode")
	fs.String("project-root", "", "Working directory for the dev backend")
	fs.String("sidecar", "", "Name of the bundled backend executable")
	fs.Bool("dev", false, "Launch the backend through the interpreter")
	fs.Bool("external-backend", false, "Never spawn a backend; connect to one started elsewhere")
	fs.String("close-policy", "", "Main window close behavior: confirm or hide")
	fs.Duration("ready-timeout", 0, "How long to wait for the backend to accept connections")
	fs.Bool("debug", false, "Enable debug logging")
	fs.String("log-dir", "", "Directory for the log file")
	fs.Bool("single-instance", true, "Refuse to start a second copy")

	for key, flag := range map[string]string{
		keyHost:            "host",
		keyPort:            "port",
		keyPython:          "python",
		keyEntryScript:     "entry-script",
		keyProjectRoot:     "project-root",
		keySidecar:         "sidecar",
		keyDev:             "dev",
		keyExternalBackend: "external-backend",
		keyClosePolicy:     "close-policy",
		keyReadyTimeout:    "ready-timeout",
		keyDebug:           "debug",
		keyLogDir:          "log-dir",
		keySingleInstance:  "single-instance",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// NewViper returns a viper instance with defaults and environment binding
// applied. devDefault decides the default launch mode; builds without an
// injected version run in dev mode.
func NewViper(devDefault bool) *viper.Viper {
	v := viper.New()
	v.SetDefault(keyHost, DefaultHost)
	v.SetDefault(keyPort, fmt.Sprint(DefaultPort))
	v.SetDefault(keyEntryScript, "main.py")
	v.SetDefault(keySidecar, "IdleNPUWaker")
	v.SetDefault(keyDev, devDefault)
	v.SetDefault(keyClosePolicy, ClosePolicyConfirm)
	v.SetDefault(keyReadyTimeout, 20*time.Second)
	v.SetDefault(keyInstancePort, fmt.Sprint(DefaultInstancePort))
	v.SetDefault(keySingleInstance, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if dir, err := ConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}
	return v
}

// Load reads the optional config file and resolves the final Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Host:            v.GetString(keyHost),
		Port:            ParsePort(v.GetString(keyPort)),
		Dev:             v.GetBool(keyDev),
		Python:          v.GetString(keyPython),
		EntryScript:     v.GetString(keyEntryScript),
		ProjectRoot:     v.GetString(keyProjectRoot),
		Sidecar:         v.GetString(keySidecar),
		ExternalBackend: v.GetBool(keyExternalBackend),
		ClosePolicy:     strings.ToLower(strings.TrimSpace(v.GetString(keyClosePolicy))),
		ReadyTimeout:    v.GetDuration(keyReadyTimeout),
		Debug:           v.GetBool(keyDebug),
		LogDir:          v.GetString(keyLogDir),
		SingleInstance:  v.GetBool(keySingleInstance),
		InstancePort:    parsePortOr(v.GetString(keyInstancePort), DefaultInstancePort),
	}

	switch cfg.ClosePolicy {
	case ClosePolicyConfirm, ClosePolicyHide:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidClosePolicy, cfg.ClosePolicy)
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 20 * time.Second
	}
	if cfg.ProjectRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.ProjectRoot = wd
		}
	}
	if cfg.LogDir == "" {
		if dir, err := LogDir(); err == nil {
			cfg.LogDir = dir
		}
	}
	return cfg, nil
}

// ApplyWebViewDefaults quiets WebView2's own console logging unless the
// user already configured browser arguments.
func ApplyWebViewDefaults() {
	if _, ok := os.LookupEnv(envWebView2Args); !ok {
		os.Setenv(envWebView2Args, defaultWebView2Args)
	}
}
