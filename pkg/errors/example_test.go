// Package errors provides examples of structured error handling.
package errors_test

import (
	"fmt"
	"io"

	"github.com/dataflowlabs/parquetcore/pkg/errors"
)

// Example demonstrates basic error creation and wrapping.
func Example() {
	err := errors.New(errors.ErrorTypeIllegalState, "startColumn called before startBlock")

	err = err.WithDetail("state", "Started").
		WithDetail("op", "startColumn")

	fmt.Println(err.Error())

	// Output:
	// illegal_state: startColumn called before startBlock
}

// ExampleWrap shows how to wrap an underlying sink error as an IOFailure.
func ExampleWrap() {
	originalErr := io.ErrClosedPipe

	err := errors.Wrap(originalErr, errors.ErrorTypeIOFailure, "failed to write page to sink").
		WithDetail("column", "user.id").
		WithDetail("offset", 4096)

	if errors.IsType(err, errors.ErrorTypeIOFailure) {
		fmt.Println("This is an IO failure")
	}

	if originalErr == io.ErrClosedPipe {
		fmt.Println("Original error was ErrClosedPipe")
	}

	// Output:
	// This is an IO failure
	// Original error was ErrClosedPipe
}

// ExampleErrorType demonstrates using the six writer error kinds.
func ExampleErrorType() {
	invalidRecord := errors.New(errors.ErrorTypeInvalidRecord, "missing required field").
		WithDetail("path", []string{"a", "b", "c"})
	fmt.Printf("Invalid record: %v\n", invalidRecord)

	overflow := errors.New(errors.ErrorTypeEncodingOverflow, "value exceeds declared bit width").
		WithDetail("bit_width", 3).
		WithDetail("value", 42)
	fmt.Printf("Encoding overflow: %v\n", overflow)

	cfgErr := errors.New(errors.ErrorTypeConfigurationError, "duplicate leaf path in schema").
		WithDetail("path", "a.b.c")
	fmt.Printf("Configuration error: %v\n", cfgErr)

	// Output:
	// Invalid record: invalid_record: missing required field
	// Encoding overflow: encoding_overflow: value exceeds declared bit width
	// Configuration error: configuration_error: duplicate leaf path in schema
}

// ExampleAborts shows how callers decide whether to abort the file on error.
func ExampleAborts() {
	illegal := errors.New(errors.ErrorTypeIllegalState, "endColumn called before startColumn")
	invalidRecord := errors.New(errors.ErrorTypeInvalidRecord, "type mismatch on leaf x")

	if errors.Aborts(illegal) {
		fmt.Println("IllegalState aborts the writer")
	}

	if !errors.Aborts(invalidRecord) {
		fmt.Println("InvalidRecord is surfaced to the caller, not auto-aborted")
	}

	// Output:
	// IllegalState aborts the writer
	// InvalidRecord is surfaced to the caller, not auto-aborted
}

// Example_errorChain shows how to chain error context across layers.
func Example_errorChain() {
	err := writePage()
	if err != nil {
		err = errors.Wrap(err, errors.ErrorTypeIOFailure, "column chunk flush failed").
			WithDetail("column", "events.ts")

		fmt.Println("Full error chain:", err)
	}

	// Output:
	// Full error chain: io_failure: column chunk flush failed: io_failure: sink write timed out
}

func writePage() error {
	return errors.New(errors.ErrorTypeIOFailure, "sink write timed out")
}

// ExampleIsType demonstrates checking error types through a wrap chain.
func ExampleIsType() {
	ioErr := errors.New(errors.ErrorTypeIOFailure, "sink closed")
	invalidRecord := errors.New(errors.ErrorTypeInvalidRecord, "missing field")

	wrapped := errors.Wrap(ioErr, errors.ErrorTypeIllegalState, "abort after IO failure")

	fmt.Printf("Is IO failure: %v\n", errors.IsType(ioErr, errors.ErrorTypeIOFailure))
	fmt.Printf("Is invalid record: %v\n", errors.IsType(invalidRecord, errors.ErrorTypeInvalidRecord))

	fmt.Printf("Wrapped error is illegal_state: %v\n", errors.IsType(wrapped, errors.ErrorTypeIllegalState))
	fmt.Printf("Wrapped error is io_failure at top level: %v\n", errors.IsType(wrapped, errors.ErrorTypeIOFailure))

	// Output:
	// Is IO failure: true
	// Is invalid record: true
	// Wrapped error is illegal_state: true
	// Wrapped error is io_failure at top level: false
}

// Example_customErrorHandling shows extracting structured detail from an error.
func Example_customErrorHandling() {
	handleError := func(err error) {
		if err == nil {
			return
		}

		if writerErr, ok := err.(*errors.Error); ok {
			fmt.Printf("Error Type: %s\n", writerErr.Type)
			fmt.Printf("Message: %s\n", writerErr.Message)

			if len(writerErr.Details) > 0 {
				fmt.Println("Details:")
				if bitWidth, ok := writerErr.Details["bit_width"]; ok {
					fmt.Printf("  bit_width: %v\n", bitWidth)
				}
				if value, ok := writerErr.Details["value"]; ok {
					fmt.Printf("  value: %v\n", value)
				}
			}
		}
	}

	err := errors.New(errors.ErrorTypeEncodingOverflow, "bit width exceeds 32").
		WithDetail("bit_width", 40).
		WithDetail("value", 1<<40)

	handleError(err)

	// Output:
	// Error Type: encoding_overflow
	// Message: bit width exceeds 32
	// Details:
	//   bit_width: 40
	//   value: 1099511627776
}
