package config

import "time"

// Config carries everything the recognition client needs at runtime.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Endpoint    EndpointConfig    `yaml:"endpoint"`
	Timeouts    TimeoutConfig     `yaml:"timeouts"`
	Log         LogConfig         `yaml:"log"`
}

// CredentialsConfig holds the Volcengine API credentials attached to every
// websocket handshake.
type CredentialsConfig struct {
	AppKey      string `yaml:"app_key"`
	AccessToken string `yaml:"access_token"`
	ResourceID  string `yaml:"resource_id"`
}

// EndpointConfig selects which service endpoint variant to speak to.
type EndpointConfig struct {
	Variant string `yaml:"variant"`
}

// TimeoutConfig holds the protocol timeouts, in milliseconds. Poll is the
// short opportunistic receive window used while audio is still flowing;
// Final bounds the wait for the definitive response after the last packet.
type TimeoutConfig struct {
	ConnectMS int `yaml:"connect_ms"`
	PollMS    int `yaml:"poll_ms"`
	FinalMS   int `yaml:"final_ms"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

func (t TimeoutConfig) Connect() time.Duration {
	return time.Duration(t.ConnectMS) * time.Millisecond
}

func (t TimeoutConfig) Poll() time.Duration {
	return time.Duration(t.PollMS) * time.Millisecond
}

func (t TimeoutConfig) Final() time.Duration {
	return time.Duration(t.FinalMS) * time.Millisecond
}
