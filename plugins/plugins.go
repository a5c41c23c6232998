package plugins

import (
	"fmt"

	"github.com/Yamashou/gqlbuilder/config"
	"github.com/Yamashou/gqlbuilder/plugins/bindgen"
)

// GenerateCode runs the code generation plugins against a config whose schema
// has been loaded.
func GenerateCode(cfg *config.Config) error {
	// bindgen
	bindGen := bindgen.New(cfg)
	if err := bindGen.MutateConfig(nil); err != nil {
		return fmt.Errorf("%s failed: %w", bindGen.Name(), err)
	}

	return nil
}
