package environment

import (
	"fmt"
	"strings"
)

// Environment represents application environment.
type Environment string

const (
	// Development for development environment.
	Development Environment = "development"
	// Production for production environment.
	Production Environment = "production"
	// Staging for staging environment.
	Staging Environment = "staging"
)

// Parse maps a name or its short alias to an Environment.
func Parse(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Development), "dev", "":
		return Development, nil
	case string(Production), "prod":
		return Production, nil
	case string(Staging), "stage":
		return Staging, nil
	default:
		return "", fmt.Errorf("unknown environment %q", s)
	}
}

// UnmarshalText lets env parsers decode aliases such as "prod".
func (e *Environment) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Environment) String() string {
	return string(e)
}

func (e Environment) IsProduction() bool {
	return e == Production
}

func (e Environment) IsDevelopment() bool {
	return e == Development
}
