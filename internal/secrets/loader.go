// Package secrets resolves credentials given inline or through a file.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret from configuration or the environment.
	Value string
	// File points to a file holding the secret. It wins over Value.
	File string
}

func (s Source) configured() bool {
	return strings.TrimSpace(s.File) != "" || strings.TrimSpace(s.Value) != ""
}

// Load returns the trimmed secret. It fails when neither File nor Value holds one.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}

// LoadOptional is Load for secrets that may be absent, such as a Redis
// password. An unconfigured source yields "" and no error.
func LoadOptional(src Source) (string, error) {
	if !src.configured() {
		return "", nil
	}
	return Load(src)
}
