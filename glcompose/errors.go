package glcompose

import (
	"errors"
	"strconv"
)

var (
	ErrUnknownFragment  = errors.New("unknown fragment")
	ErrParameterMissing = errors.New("parameter missing")
	ErrMalformedNumeric = errors.New("malformed numeric literal")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// UnknownFragmentError is returned when a selection names a fragment absent
// from the generator's registry. Matches [ErrUnknownFragment] with errors.Is.
type UnknownFragmentError struct {
	Generator string
	Name      string
}

func (e *UnknownFragmentError) Error() string {
	return "unknown fragment " + strconv.Quote(e.Name) + " in generator " + strconv.Quote(e.Generator)
}

func (e *UnknownFragmentError) Is(target error) bool { return target == ErrUnknownFragment }

// ParameterMissingError is returned when a parameter that was never set is requested.
// Matches [ErrParameterMissing] with errors.Is.
type ParameterMissingError struct {
	Owner string
	Key   string
}

func (e *ParameterMissingError) Error() string {
	return "parameter " + strconv.Quote(e.Key) + " missing for " + strconv.Quote(e.Owner)
}

func (e *ParameterMissingError) Is(target error) bool { return target == ErrParameterMissing }

// MalformedNumericError is returned when a parameter value has fewer numerals
// than required. Matches [ErrMalformedNumeric] with errors.Is.
type MalformedNumericError struct {
	Owner string
	Key   string
	Raw   string
	Want  int
	Got   int
}

func (e *MalformedNumericError) Error() string {
	return "parameter " + strconv.Quote(e.Key) + " of " + strconv.Quote(e.Owner) + " value " + strconv.Quote(e.Raw) +
		": want " + strconv.Itoa(e.Want) + " numerals, got " + strconv.Itoa(e.Got)
}

func (e *MalformedNumericError) Is(target error) bool { return target == ErrMalformedNumeric }

// InvalidParameterError is returned when a parameter key or value cannot be
// emitted as valid source. Matches [ErrInvalidParameter] with errors.Is.
type InvalidParameterError struct {
	Owner  string
	Key    string
	Raw    string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return "parameter " + strconv.Quote(e.Key) + " of " + strconv.Quote(e.Owner) + " value " + strconv.Quote(e.Raw) + ": " + e.Reason
}

func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }
