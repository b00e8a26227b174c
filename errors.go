package shadercache

import "errors"

// Package errors for the shader deduplication layer.
var (
	// ErrInterfaceNotSupported is returned by QueryInterface for an
	// identity outside the object's supported set. Non-fatal: the caller
	// receives a nil reference and may probe other identities.
	ErrInterfaceNotSupported = errors.New("shadercache: interface not supported")

	// ErrNilDevice is returned when a shader is created without a device.
	ErrNilDevice = errors.New("shadercache: device is nil")

	// ErrNilCompiler is returned when translation is requested on a device
	// configured without a compiler.
	ErrNilCompiler = errors.New("shadercache: compiler is nil")

	// ErrEmptyBytecode is returned when the submitted bytecode is empty.
	ErrEmptyBytecode = errors.New("shadercache: shader bytecode is empty")

	// ErrStageNotSupported is returned when a compiler cannot express the
	// requested pipeline stage in its source or target language.
	ErrStageNotSupported = errors.New("shadercache: pipeline stage not supported by compiler")

	// ErrEntryPointMissing is returned when the translated module declares
	// no entry point for the submitted stage.
	ErrEntryPointMissing = errors.New("shadercache: no entry point for requested stage")

	// ErrNoQueue is returned when a shader embeds constant data but the
	// device has no queue to upload it with.
	ErrNoQueue = errors.New("shadercache: device has no queue for initializer upload")

	// ErrStoreClosed is returned by operations on a closed persistent store.
	ErrStoreClosed = errors.New("shadercache: store is closed")
)
