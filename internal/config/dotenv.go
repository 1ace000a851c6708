package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// loadDotEnv exports variables from path into the process environment.
// Variables that are already set are left untouched, and a missing file is
// not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("error loading %s: %w", path, err)
}
