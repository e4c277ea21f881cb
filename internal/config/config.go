package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds relay configuration. It is built once at startup and not mutated afterwards.
type Config struct {
	ListenHost        string        `mapstructure:"listen_host" yaml:"listen_host"`
	ListenPort        int           `mapstructure:"listen_port" yaml:"listen_port"`
	NetTTSHost        string        `mapstructure:"nettts_host" yaml:"nettts_host"`
	NetTTSPort        int           `mapstructure:"nettts_port" yaml:"nettts_port"`
	Prefix            string        `mapstructure:"prefix" yaml:"prefix"`
	MaxLen            int           `mapstructure:"max_len" yaml:"max_len"`
	AllowedUsers      []string      `mapstructure:"allowed_users" yaml:"allowed_users"`
	DialTimeout       time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogPretty         bool          `mapstructure:"log_pretty" yaml:"log_pretty"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
}

// Default returns configuration matching a local Social Stream Ninja + NetTTS setup.
func Default() Config {
	return Config{
		ListenHost:        "127.0.0.1",
		ListenPort:        7878,
		NetTTSHost:        "127.0.0.1",
		NetTTSPort:        5555,
		Prefix:            "/rate 99 ",
		MaxLen:            200,
		AllowedUsers:      []string{},
		DialTimeout:       2 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxBodyBytes:      1 << 20,
		LogLevel:          "info",
		LogPretty:         true,
		MetricsEnabled:    true,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
// Booleans cannot be cleared this way; set them on the receiver directly.
func (c *Config) UpdateFrom(other Config) {
	if other.ListenHost != "" {
		c.ListenHost = other.ListenHost
	}
	if other.ListenPort != 0 {
		c.ListenPort = other.ListenPort
	}
	if other.NetTTSHost != "" {
		c.NetTTSHost = other.NetTTSHost
	}
	if other.NetTTSPort != 0 {
		c.NetTTSPort = other.NetTTSPort
	}
	if other.Prefix != "" {
		c.Prefix = other.Prefix
	}
	if other.MaxLen != 0 {
		c.MaxLen = other.MaxLen
	}
	if len(other.AllowedUsers) > 0 {
		c.AllowedUsers = append([]string(nil), other.AllowedUsers...)
	}
	if other.DialTimeout != 0 {
		c.DialTimeout = other.DialTimeout
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.MaxBodyBytes != 0 {
		c.MaxBodyBytes = other.MaxBodyBytes
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogPretty {
		c.LogPretty = true
	}
	if other.MetricsEnabled {
		c.MetricsEnabled = true
	}
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ListenHost) == "" {
		errs = append(errs, errors.New("listen_host is empty"))
	}
	if !validPort(c.ListenPort) {
		errs = append(errs, fmt.Errorf("listen_port %d out of range", c.ListenPort))
	}
	if strings.TrimSpace(c.NetTTSHost) == "" {
		errs = append(errs, errors.New("nettts_host is empty"))
	}
	if !validPort(c.NetTTSPort) {
		errs = append(errs, fmt.Errorf("nettts_port %d out of range", c.NetTTSPort))
	}
	if strings.ContainsAny(c.Prefix, "\r\n") {
		errs = append(errs, errors.New("prefix must not contain line breaks"))
	}
	if c.MaxLen < 0 {
		errs = append(errs, fmt.Errorf("max_len %d is negative", c.MaxLen))
	}
	if c.DialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("dial_timeout %s must be positive", c.DialTimeout))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes %d must be positive", c.MaxBodyBytes))
	}
	return errors.Join(errs...)
}

// ListenAddr is the HTTP ingress address.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.ListenPort))
}

// NetTTSAddr is the TTS engine address.
func (c Config) NetTTSAddr() string {
	return net.JoinHostPort(c.NetTTSHost, strconv.Itoa(c.NetTTSPort))
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
