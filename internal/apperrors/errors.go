package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller holds no role granting the required privilege.
var ErrUnauthorized = errors.New("caller is not authorized")

// ErrConsistency indicates that an operation would violate a ledger invariant
// (a balance going negative). It signals a bug elsewhere, never a normal
// business rejection, and must not be swallowed.
var ErrConsistency = errors.New("ledger consistency violation")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
