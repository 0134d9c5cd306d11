package config

import "os"

func IsDebug() bool {
	return os.Getenv("WIZZY_DEBUG") == "1"
}
