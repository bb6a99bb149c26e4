package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/briefly/internal/core/config"
)

// ConfigCheck re-reads the config file and reports every invalid field.
type ConfigCheck struct {
	configPath string
	dataDir    string
}

// NewConfigCheck creates a new config check.
func NewConfigCheck(configPath, dataDir string) *ConfigCheck {
	return &ConfigCheck{configPath: configPath, dataDir: dataDir}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.configPath); os.IsNotExist(err) {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusPass,
			Detail: "not found, using defaults",
		})
	}

	cfg, err := config.Read(c.configPath, c.dataDir)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.configPath,
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	err = cfg.ValidateDeep(c.configPath)
	if err == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "config valid",
			Status: StatusPass,
			Detail: c.configPath,
		})
		return result
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		result.Items = append(result.Items, CheckItem{
			Label:  "config",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	for _, fe := range fieldErrs {
		result.Items = append(result.Items, CheckItem{
			Label:  fe.Field,
			Status: StatusFail,
			Detail: fmt.Sprint(fe.Err),
		})
	}
	return result
}
