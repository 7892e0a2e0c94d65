package connector

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/coretalks/ulp.go/pkg/rig"
	"github.com/coretalks/ulp.go/pkg/rig/comm/mqtt"
	"github.com/coretalks/ulp.go/pkg/rig/comm/websocket"
)

// Config provides common options to setup Connectors.
type Config struct {
	Ref rig.Ref

	// RegistryURL specifies the URL of rig registry.
	// e.g. mqtt://host:port/topic-prefix or ws://host:port/path
	RegistryURL string
}

var defaultConfig = Config{
	RegistryURL: "mqtt://localhost:1883/ulp/",
}

func init() {
	if val := os.Getenv("ULP_RIG_TYPE"); val != "" {
		defaultConfig.Ref.Type = val
	}
	if val := os.Getenv("ULP_RIG_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
	if val := os.Getenv("ULP_REGISTRY_URL"); val != "" {
		defaultConfig.RegistryURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "rig-type", defaultConfig.Ref.Type, "Rig type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "rig-id", defaultConfig.Ref.ID, "Rig ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "rig-reg", defaultConfig.RegistryURL, "Rig Registry URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (rig.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %v", err)
	}
	switch parsedURL.Scheme {
	case "mqtt":
		return mqtt.NewConnector(c.RegistryURL)
	case "ws", "wss":
		return websocket.NewConnector(c.RegistryURL), nil
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() rig.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// Connect directly connects to a rig.
func (c *Config) Connect() (rig.Conn, error) {
	if !c.Ref.IsValid() {
		return nil, fmt.Errorf("rig type and id must be specified")
	}
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.TODO(), c.Ref)
}

// MustConnect connects to a rig or fails.
func (c *Config) MustConnect() rig.Conn {
	conn, err := c.Connect()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}
