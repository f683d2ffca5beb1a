package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("action forbidden")

// ErrUnbalancedEntry indicates a journal entry whose debits and credits do not
// sum to the same amount. The entry is rejected before any write.
var ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")

// ErrInvalidAccount indicates a journal line referencing an account that is
// unknown, inactive, header-only, or owned by another koperasi.
var ErrInvalidAccount = errors.New("invalid account referenced by journal line")

// ErrStaleState indicates a transition was attempted against an outdated
// expected status. Callers should re-read the transaction and retry.
var ErrStaleState = errors.New("transaction status changed concurrently")
