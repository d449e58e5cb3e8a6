package config

import "os"

type Logging struct {
	Level string
	// rotated log file, empty for stderr only
	File string
	JSON bool
}

func NewLogging() *Logging {
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
		if Development() {
			level = "debug"
		}
	}
	return &Logging{
		Level: level,
		File:  os.Getenv("LOG_FILE"),
		JSON:  !Development(),
	}
}
