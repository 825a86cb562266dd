package config

type ConfigInitError struct {
	msg string
}

func (e *ConfigInitError) Error() string {
	if e.msg == "" {
		return "no notes directory is configured, run 'quill init' first"
	}
	return e.msg
}
