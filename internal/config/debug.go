package config

import "os"

func IsDebug() bool {
	return os.Getenv("PEPE_DEBUG") == "1"
}
