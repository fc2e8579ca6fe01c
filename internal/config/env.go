package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads DEALDESK_* overrides from a dotenv file so they are seen
// by LoadConfiguration. Variables already set in the environment win. A
// missing file is not an error; the returned bool reports whether it loaded.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("unable to stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("unable to load env file %s: %w", path, err)
	}
	return true, nil
}
