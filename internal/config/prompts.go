package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"resumepanel/internal/types"
)

// loadedPromptSet holds prompt overrides read from files at load time.
type loadedPromptSet struct {
	experts map[types.Dimension]string
	summary string
}

// loadPromptsFromFiles reads every configured systemPromptFile.
func (c *Config) loadPromptsFromFiles() error {
	next := loadedPromptSet{experts: map[types.Dimension]string{}}
	for key, op := range c.AI.Experts {
		if op.SystemPromptFile == "" {
			continue
		}
		d, ok := types.ParseDimension(key)
		if !ok {
			return fmt.Errorf("unknown expert %q in ai.experts", key)
		}
		content, err := loadPromptFromFile(op.SystemPromptFile, string(d))
		if err != nil {
			return err
		}
		next.experts[d] = content
	}
	if c.AI.Summary.SystemPromptFile != "" {
		content, err := loadPromptFromFile(c.AI.Summary.SystemPromptFile, "summary")
		if err != nil {
			return err
		}
		next.summary = content
	}

	c.prompts = next
	if n := len(next.experts); n > 0 || next.summary != "" {
		log.Printf("[CONFIG] Custom prompts loaded: %d expert, summary %t", n, next.summary != "")
	}
	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s prompt file not found: %s", operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s prompt from file: %s (%d characters)", operation, absPath, len(trimmed))
	return trimmed, nil
}
