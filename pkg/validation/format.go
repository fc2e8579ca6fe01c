// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/dealdesk/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, constants.OutputFormatYAML:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON,
		constants.OutputFormatYAML, format)
}

// ValidateMode checks if the run mode is supported.
func ValidateMode(mode string) error {
	if mode != constants.ModeEvaluate && mode != constants.ModeOptimize {
		return fmt.Errorf("expected mode of %s or %s, got %s",
			constants.ModeEvaluate, constants.ModeOptimize, mode)
	}
	return nil
}
