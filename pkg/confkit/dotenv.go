package confkit

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

// maxDotenvDepth bounds the upward search for .env files.
const maxDotenvDepth = 6

var dotenvOnce sync.Once

// LoadDotenvOnce loads .env files once per process. ENV_FILE names a single
// file; otherwise every .env from the working directory up to the module
// root is loaded, nearest first. Existing variables win unless
// DOTENV_OVERLOAD=1. NO_DOTENV=1 disables loading.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	load := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		load = godotenv.Overload
	}
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = load(envFile)
		return
	}
	for _, p := range dotenvCandidates() {
		_ = load(p)
	}
}

// dotenvCandidates lists existing .env files from the working directory
// upwards, stopping at the first directory that holds go.mod.
func dotenvCandidates() []string {
	dir, err := os.Getwd()
	if err != nil {
		return nil
	}
	var out []string
	for i := 0; i < maxDotenvDepth; i++ {
		if p := filepath.Join(dir, ".env"); fileExists(p) {
			out = append(out, p)
		}
		if fileExists(filepath.Join(dir, "go.mod")) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return out
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
