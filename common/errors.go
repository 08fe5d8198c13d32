/*******************************************************************************
*
* Copyright 2024 Heimdall contributors
*
* This file is part of Heimdall.
*
* Heimdall is free software: you can redistribute it and/or modify it under the
* terms of the GNU General Public License as published by the Free Software
* Foundation, either version 3 of the License, or (at your option) any later
* version.
*
* Heimdall is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR
* A PARTICULAR PURPOSE. See the GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License along with
* Heimdall. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package common

import "errors"

// Kind is one entry of the error taxonomy from spec.md §7. A Kind itself
// is not an error: it is carried by a *TaxonomyError and checked with Is
// below, which looks through wrapped errors with errors.As.
type Kind int

const (
	KindUnknown Kind = iota

	// Input errors
	KindNotFound
	KindPermissionDenied
	KindTruncated
	KindUnrecognizedFormat
	KindUnsupportedArchitecture

	// Debug-info errors
	KindNoDebugInfo
	KindCorruptDebugInfo
	KindUnsupportedDebugInfo

	// Document errors
	KindUnknownFormat
	KindUnknownVersion
	KindSerializationFailed

	// Signing errors
	KindKeyLoadFailed
	KindUnsupportedAlgorithm
	KindAlgorithmKeyMismatch
	KindSignFailed
	KindCanonicalizationFailed

	// Configuration errors (fatal)
	KindUnwritableOutput
	KindConflictingOptions
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindTruncated:
		return "Truncated"
	case KindUnrecognizedFormat:
		return "UnrecognizedFormat"
	case KindUnsupportedArchitecture:
		return "UnsupportedArchitecture"
	case KindNoDebugInfo:
		return "NoDebugInfo"
	case KindCorruptDebugInfo:
		return "CorruptDebugInfo"
	case KindUnsupportedDebugInfo:
		return "UnsupportedDebugInfo"
	case KindUnknownFormat:
		return "UnknownFormat"
	case KindUnknownVersion:
		return "UnknownVersion"
	case KindSerializationFailed:
		return "SerializationFailed"
	case KindKeyLoadFailed:
		return "KeyLoadFailed"
	case KindUnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case KindAlgorithmKeyMismatch:
		return "AlgorithmKeyMismatch"
	case KindSignFailed:
		return "SignFailed"
	case KindCanonicalizationFailed:
		return "CanonicalizationFailed"
	case KindUnwritableOutput:
		return "UnwritableOutput"
	case KindConflictingOptions:
		return "ConflictingOptions"
	default:
		return "Unknown"
	}
}

// TaxonomyError wraps an underlying error with a classification Kind so
// callers (CLI, C-ABI plugin shim) can categorize failures without string
// matching.
type TaxonomyError struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *TaxonomyError) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Detail + ": " + e.Cause.Error()
	}
	return e.Kind.String() + ": " + e.Detail
}

func (e *TaxonomyError) Unwrap() error { return e.Cause }

// NewError builds a TaxonomyError.
func NewError(kind Kind, detail string, cause error) *TaxonomyError {
	return &TaxonomyError{Kind: kind, Detail: detail, Cause: cause}
}

// Is reports whether err carries the given Kind, looking through wraps.
func Is(err error, kind Kind) bool {
	var te *TaxonomyError
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}
