package efris

import (
	"fmt"
	"strings"
)

// Environment selects the EFRIS gateway instance. Both expose the same
// single getInformation endpoint; only the host differs.
type Environment int

const (
	Test Environment = iota
	Prod
)

func (e Environment) BaseURL() string {
	switch e {
	case Prod:
		return "https://efris.ura.go.ug/efrisws/ws/taapp/getInformation"
	case Test:
		return "https://efristest.ura.go.ug/efrisws/ws/taapp/getInformation"
	}
	panic("Invalid environment")
}

func (e Environment) Name() string {
	switch e {
	case Prod:
		return "prod"
	case Test:
		return "test"
	}
	panic("Invalid environment")
}

func (e *Environment) UnmarshalText(text []byte) error {
	val := strings.ToLower(strings.TrimSpace(string(text)))

	switch val {
	case "prod", "production":
		*e = Prod
	case "test":
		*e = Test
	default:
		return fmt.Errorf("invalid EFRIS environment: %q (allowed: prod, test)", val)
	}
	return nil
}
