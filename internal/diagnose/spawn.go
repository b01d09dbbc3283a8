package diagnose

import (
	"errors"

	"pybundle/internal/i18n"
	"pybundle/internal/pyinstaller"
)

// FromSpawnError translates a process-level failure into a Diagnostic. These
// never reach the classifier: either no transcript exists yet, or the
// transcript broke off before the process reported an exit status.
func FromSpawnError(catalog *i18n.Catalog, python string, err error) *Diagnostic {
	if catalog == nil {
		catalog = i18n.Load("en")
	}
	switch {
	case errors.Is(err, pyinstaller.ErrToolNotFound):
		return &Diagnostic{
			ID:      SignatureToolNotFound,
			Message: catalog.Format("diag.tool_not_found.message", python),
			Remedy:  catalog.Lookup("diag.tool_not_found.remedy"),
			Detail:  err.Error(),
		}
	case errors.Is(err, pyinstaller.ErrRunFailed):
		return &Diagnostic{
			ID:      SignatureRunFailure,
			Message: catalog.Format("diag.run_failed.message", err.Error()),
			Remedy:  catalog.Lookup("diag.run_failed.remedy"),
			Detail:  err.Error(),
		}
	case errors.Is(err, pyinstaller.ErrPermissionDenied):
		return &Diagnostic{
			ID:      SignatureSpawnPermission,
			Message: catalog.Lookup("diag.spawn_permission.message"),
			Remedy:  catalog.Lookup("diag.spawn_permission.remedy"),
			Detail:  err.Error(),
		}
	default:
		return &Diagnostic{
			ID:      SignatureSpawnFailed,
			Message: catalog.Format("diag.spawn_failed.message", err.Error()),
			Remedy:  catalog.Lookup("diag.spawn_failed.remedy"),
			Detail:  err.Error(),
		}
	}
}

// FromValidationError builds the terminal diagnostic for options that never
// made it past composition.
func FromValidationError(catalog *i18n.Catalog, detail string) *Diagnostic {
	if catalog == nil {
		catalog = i18n.Load("en")
	}
	return &Diagnostic{
		ID:      SignatureValidation,
		Message: catalog.Format("diag.validation.message", detail),
		Remedy:  catalog.Lookup("diag.validation.remedy"),
		Detail:  detail,
	}
}
