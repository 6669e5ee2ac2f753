package config

import (
	"fmt"
	"os"
	"time"
)

// NonValidatingTrustManager is the only accepted value for
// endpoint.ssl_trust_manager besides an empty string. It replaces the JRE-style
// trust settings with a trust-everything policy for test environments.
const NonValidatingTrustManager = "NonValidatingTM"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig      `mapstructure:"app"`
	Endpoint  EndpointConfig `mapstructure:"endpoint"`
	Ticket    TicketConfig   `mapstructure:"ticket"`
	Templates TemplateConfig `mapstructure:"templates"`
	Logging   LoggingConfig  `mapstructure:"logging"`
	Metrics   MetricsConfig  `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// EndpointConfig holds the connection settings for the remote integration
// endpoint.
type EndpointConfig struct {
	WsURL    string `mapstructure:"ws_url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds

	ProxyURL  string `mapstructure:"proxy_url"`
	ProxyPort int    `mapstructure:"proxy_port"`
	ProxyType string `mapstructure:"proxy_type"` // HTTP or SOCKS

	SSLTrustManager   string `mapstructure:"ssl_trust_manager"`
	SSLDisableCnCheck bool   `mapstructure:"ssl_disable_cn_check"`

	// Directory for request/response message logs. Message logging is off
	// when empty.
	MessageLogBasedir string `mapstructure:"message_log_basedir"`
}

// TicketConfig holds the per-integration ticket settings.
type TicketConfig struct {
	ProfileName        string `mapstructure:"profile_name"`
	CIName             string `mapstructure:"ci_name"`
	Priority           string `mapstructure:"priority"`
	TestIncidentNumber string `mapstructure:"test_incident_number"`
}

// TemplateConfig holds the template text for ticket descriptions. A static
// built-in rendering is used for any template left empty.
type TemplateConfig struct {
	Description string `mapstructure:"description"`
	Detail      string `mapstructure:"detail"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// GetTimeout converts the configured endpoint timeout to a time.Duration.
func (e EndpointConfig) GetTimeout() time.Duration {
	return time.Duration(e.Timeout) * time.Millisecond
}

// TamperSSL reports whether the TLS trust settings are overridden.
func (e EndpointConfig) TamperSSL() bool {
	return e.SSLTrustManager != "" || e.SSLDisableCnCheck
}

// Validate checks the critical configuration fields. It is called eagerly on
// connect, before any network attempt.
func (c *Config) Validate() error {
	if c.Endpoint.WsURL == "" {
		return fmt.Errorf("endpoint.ws_url must not be empty")
	}
	if c.Endpoint.Username == "" {
		return fmt.Errorf("endpoint.username must not be empty")
	}
	if c.Endpoint.Password == "" {
		return fmt.Errorf("endpoint.password must not be empty")
	}

	if err := c.validateSSLTrustManager(); err != nil {
		return err
	}

	return c.validateMessageLogBasedir()
}

func (c *Config) validateSSLTrustManager() error {
	switch c.Endpoint.SSLTrustManager {
	case "", NonValidatingTrustManager:
		return nil
	default:
		return fmt.Errorf("endpoint.ssl_trust_manager has invalid value %q, valid values are <empty> and %s",
			c.Endpoint.SSLTrustManager, NonValidatingTrustManager)
	}
}

func (c *Config) validateMessageLogBasedir() error {
	dir := c.Endpoint.MessageLogBasedir
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("the message log basedir (%s) doesn't exist", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("the path to the message log basedir (%s) points to an existing file", dir)
	}
	return nil
}
