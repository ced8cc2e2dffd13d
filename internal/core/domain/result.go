package domain

// FailureKind classifies an operation failure so transport layers can
// map it to a status code without parsing the human-readable reason.
type FailureKind string

const (
	FailureUnknown  FailureKind = ""
	FailureNotFound FailureKind = "not_found"
	FailureConflict FailureKind = "conflict"
)

// OperationResult is the two-state outcome returned by every mutating
// operation across both services: success, or failure with a
// human-readable reason. Expected failure paths (not-found, conflict,
// companion-call failure) travel through this value rather than error.
type OperationResult struct {
	OK     bool        `json:"ok"`
	Reason string      `json:"reason,omitempty"`
	Kind   FailureKind `json:"-"`
}

// Success returns a successful OperationResult.
func Success() OperationResult {
	return OperationResult{OK: true}
}

// Failure returns a failed OperationResult carrying reason.
func Failure(reason string) OperationResult {
	return OperationResult{OK: false, Reason: reason}
}

// NotFoundFailure returns a failure classified as a missing record.
func NotFoundFailure(reason string) OperationResult {
	return OperationResult{OK: false, Reason: reason, Kind: FailureNotFound}
}

// ConflictFailure returns a failure classified as a uniqueness conflict.
func ConflictFailure(reason string) OperationResult {
	return OperationResult{OK: false, Reason: reason, Kind: FailureConflict}
}
