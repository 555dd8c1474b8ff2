package config

const (
	defaultResourceID = "volc.bigasr.sauc.duration"
	defaultVariant    = "bidirectional"

	defaultConnectMS = 10000
	defaultPollMS    = 100
	defaultFinalMS   = 10000
)

// Default returns a config populated with service defaults. Credentials are
// intentionally empty and must come from the file or the environment.
func Default() *Config {
	return &Config{
		Credentials: CredentialsConfig{
			ResourceID: defaultResourceID,
		},
		Endpoint: EndpointConfig{
			Variant: defaultVariant,
		},
		Timeouts: TimeoutConfig{
			ConnectMS: defaultConnectMS,
			PollMS:    defaultPollMS,
			FinalMS:   defaultFinalMS,
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Credentials.ResourceID == "" {
		c.Credentials.ResourceID = def.Credentials.ResourceID
	}
	if c.Endpoint.Variant == "" {
		c.Endpoint.Variant = def.Endpoint.Variant
	}
	if c.Timeouts.ConnectMS <= 0 {
		c.Timeouts.ConnectMS = def.Timeouts.ConnectMS
	}
	if c.Timeouts.PollMS <= 0 {
		c.Timeouts.PollMS = def.Timeouts.PollMS
	}
	if c.Timeouts.FinalMS <= 0 {
		c.Timeouts.FinalMS = def.Timeouts.FinalMS
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
