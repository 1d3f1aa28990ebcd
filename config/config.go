// Package config holds the agent's tunables and runtime options: defaults,
// YAML loading, validation and the JSON schema of the file format.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/lab1702/tank-agent/agent"
	"github.com/lab1702/tank-agent/protocol"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Transport modes
const (
	TransportStdio     = "stdio"
	TransportWebsocket = "websocket"
)

// Config is the full runtime configuration.
type Config struct {
	Agent       agent.Params `yaml:"agent" json:"agent"`
	Transport   string       `yaml:"transport" json:"transport" jsonschema:"enum=stdio,enum=websocket,default=stdio"`
	URL         string       `yaml:"url" json:"url,omitempty" jsonschema:"description=Game server websocket URL"`
	Codec       string       `yaml:"codec" json:"codec" jsonschema:"enum=json,enum=msgpack,default=json"`
	LogLevel    string       `yaml:"log_level" json:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Agents      int          `yaml:"agents" json:"agents" jsonschema:"minimum=1,default=1,description=Independent sessions to run (websocket only)"`
	Viz         bool         `yaml:"viz" json:"viz" jsonschema:"description=Draw the world in the terminal (single agent only)"`
	DialTimeout string       `yaml:"dial_timeout" json:"dial_timeout" jsonschema:"default=30s,description=Give up dialing after this long; 0 retries forever"`
	Seed        uint64       `yaml:"seed" json:"seed,omitempty" jsonschema:"description=Fixed random seed; 0 picks one at random"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Agent:       agent.DefaultParams(),
		Transport:   TransportStdio,
		Codec:       "json",
		LogLevel:    "info",
		Agents:      1,
		DialTimeout: "30s",
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected. The
// result is not validated, so callers can apply overrides first.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once, wrapped in ErrInvalid.
func (c Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	p := c.Agent
	check(p.DetectionRadius >= 0, "agent.detection_radius %v is negative", p.DetectionRadius)
	check(p.BoundaryThreshold >= 0, "agent.boundary_threshold %v is negative", p.BoundaryThreshold)
	check(p.RingPoints >= 1, "agent.ring_points %d must be at least 1", p.RingPoints)
	check(p.RingRadius >= 0, "agent.ring_radius %v is negative", p.RingRadius)
	check(p.AimJitterDeg >= 0 && p.AimJitterDeg <= 180, "agent.aim_jitter_deg %v outside [0, 180]", p.AimJitterDeg)
	check(p.ReferenceMaxSpeed >= 0, "agent.reference_max_speed %v is negative", p.ReferenceMaxSpeed)
	check(p.OptimalSpeedRatio >= 0 && p.OptimalSpeedRatio <= 1, "agent.optimal_speed_ratio %v outside [0, 1]", p.OptimalSpeedRatio)
	check(p.PatienceTurns >= 0, "agent.patience_turns %d is negative", p.PatienceTurns)
	check(p.BulletSpeed > 0, "agent.bullet_speed %v must be positive", p.BulletSpeed)

	switch c.Transport {
	case TransportStdio:
		check(c.Agents == 1, "stdio transport runs exactly one agent, not %d", c.Agents)
	case TransportWebsocket:
		check(c.URL != "", "websocket transport needs a url")
	default:
		problems = append(problems, fmt.Errorf("unknown transport %q", c.Transport))
	}

	if codec, err := protocol.CodecByName(c.Codec); err != nil {
		problems = append(problems, err)
	} else {
		check(!(codec.Binary() && c.Transport == TransportStdio), "codec %s cannot run over stdio", c.Codec)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Errorf("log_level: %w", err))
	}

	check(c.Agents >= 1, "agents %d must be at least 1", c.Agents)
	check(!c.Viz || c.Agents == 1, "viz needs a single agent")

	if d, err := time.ParseDuration(c.DialTimeout); err != nil {
		problems = append(problems, fmt.Errorf("dial_timeout: %w", err))
	} else {
		check(d >= 0, "dial_timeout %s is negative", d)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
	}
	return nil
}

// DialTimeoutDuration returns DialTimeout parsed. Call only on a validated
// config.
func (c Config) DialTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DialTimeout)
	return d
}

// Level returns the parsed log level. Call only on a validated config.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Schema describes the YAML file format.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(new(Config))
	schema.Title = "Tank agent configuration"
	schema.Description = "Validates the YAML file passed to run --config"
	return schema
}
