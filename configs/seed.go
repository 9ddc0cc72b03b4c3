// Package configs loads the fixture file used by the seeder.
package configs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSeedPath is read when SEED_FILE is not set.
const DefaultSeedPath = "configs/seed.yaml"

// SeedUser is an account plus the role of its profile.
type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// SeedCandidate mirrors the candidate form of the admin panel.
type SeedCandidate struct {
	Name        string `yaml:"name"`
	Position    string `yaml:"position"`
	Gender      string `yaml:"gender"`
	ImageURL    string `yaml:"imageUrl"`
	Workplace   string `yaml:"workplace"`
	Description string `yaml:"description"`
}

// SeedPeriod is the voting window to store.
type SeedPeriod struct {
	IsEnabled bool       `yaml:"isEnabled"`
	StartDate *time.Time `yaml:"startDate"`
	EndDate   *time.Time `yaml:"endDate"`
}

// Seed is the whole fixture file.
type Seed struct {
	Users        []SeedUser      `yaml:"users"`
	Candidates   []SeedCandidate `yaml:"candidates"`
	VotingPeriod *SeedPeriod     `yaml:"votingPeriod"`
}

// SeedPath returns SEED_FILE or DefaultSeedPath.
func SeedPath() string {
	if p := os.Getenv("SEED_FILE"); p != "" {
		return p
	}
	return DefaultSeedPath
}

// LoadSeed reads and parses a fixture file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed parses fixture YAML.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}
