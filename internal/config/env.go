package config

import (
	"os"

	"github.com/joho/godotenv"
)

// EnvFiles are loaded, when present, before the configuration is read.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads EnvFiles into the process environment. Variables that
// are already set are never overwritten, so the first file wins. It returns
// the files that were loaded.
func LoadEnvFiles() []string {
	var loaded []string
	for _, name := range EnvFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			continue
		}
		loaded = append(loaded, name)
	}
	return loaded
}
