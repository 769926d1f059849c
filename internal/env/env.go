package env

import "fmt"

type Environment string

const (
	Production Environment = "production"
	Staging    Environment = "staging"
)

func (e Environment) IsProduction() bool { return e == Production }
func (e Environment) IsStaging() bool    { return e == Staging }

func (e Environment) Validate() error {
	switch e {
	case Production, Staging:
		return nil
	default:
		return fmt.Errorf("invalid environment: %q (valid: production, staging)", string(e))
	}
}
