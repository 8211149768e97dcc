package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hreval/internal/domain/evaluation"
)

type reviewersFile struct {
	Reviewers []evaluation.Reviewer `yaml:"reviewers"`
}

// LoadReviewers builds the reviewer directory from a YAML file. An empty path
// yields the built-in reviewers.
func LoadReviewers(path string) (*evaluation.Directory, error) {
	if path == "" {
		return evaluation.NewDirectory(evaluation.DefaultReviewers())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reviewers file: %w", err)
	}
	var file reviewersFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse reviewers file: %w", err)
	}
	if len(file.Reviewers) == 0 {
		return nil, fmt.Errorf("reviewers file %s lists no reviewers", path)
	}
	return evaluation.NewDirectory(file.Reviewers)
}
