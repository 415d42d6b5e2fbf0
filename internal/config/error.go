package config

// ConfigInitError reports a config file whose values cannot be used.
type ConfigInitError struct {
	msg string
}

func (e *ConfigInitError) Error() string {
	return "config: " + e.msg
}
