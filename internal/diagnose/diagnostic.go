package diagnose

// SignatureID identifies a known failure signature.
type SignatureID string

const (
	// SignatureToolNotInstalled: the packaging module is missing from the interpreter.
	SignatureToolNotInstalled SignatureID = "tool_not_installed"
	// SignatureMissingDependency: the script imports a module that is not installed.
	SignatureMissingDependency SignatureID = "missing_dependency"
	// SignaturePermissionIssue: the tool hit a permission failure while packaging.
	SignaturePermissionIssue SignatureID = "permission_issue"
	// SignatureSyntaxIssue: the script does not parse.
	SignatureSyntaxIssue SignatureID = "syntax_issue"
	// SignatureUnknownFailure: nonzero exit with no matching signature.
	SignatureUnknownFailure SignatureID = "unknown_failure"
	// SignatureValidation: the options snapshot never made it to a process.
	SignatureValidation SignatureID = "validation_error"
	// SignatureToolNotFound: the interpreter executable is missing.
	SignatureToolNotFound SignatureID = "tool_not_found"
	// SignatureSpawnPermission: the OS refused to start the interpreter.
	SignatureSpawnPermission SignatureID = "spawn_permission"
	// SignatureSpawnFailed: any other OS-level launch failure.
	SignatureSpawnFailed SignatureID = "spawn_failed"
	// SignatureRunFailure: the process started but its run did not complete.
	SignatureRunFailure SignatureID = "run_failure"
)

// Diagnostic is the structured advisory attached to a failed session. It is
// an immutable value: build one, hand it out, never mutate it.
type Diagnostic struct {
	ID      SignatureID
	Message string
	Remedy  string
	// Detail carries the matched transcript line, or the raw log tail for
	// unknown failures.
	Detail string
	// Module names the missing import for SignatureMissingDependency.
	Module string
}
