package common

import (
	"fmt"
	"strings"
)

// RequiredField pairs a field name with its (already trimmed) value.
type RequiredField struct {
	Name  string
	Value string
}

// RequireNonBlank returns a Validation error naming every blank field, or nil.
func RequireNonBlank(fields ...RequiredField) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}

	switch len(missing) {
	case 0:
		return nil
	case 1:
		return Validation(missing[0] + " is required")
	}
	return Validation(strings.Join(missing, ", ") + " are required")
}

// ExportFault wraps a storage error raised while producing a CSV export.
func ExportFault(err error) *Error {
	return StorageFault(fmt.Errorf("CSV export failed: %w", err))
}
