package constants

// Size Constants
//
// Standard binary size units (powers of 1024, not 1000).
const (
	// Byte is the base unit (included for completeness).
	Byte = 1

	// KB is one kilobyte (1,024 bytes).
	KB = 1024

	// MB is one megabyte (1,024 kilobytes = 1,048,576 bytes).
	MB = 1024 * KB

	// GB is one gigabyte (1,024 megabytes = 1,073,741,824 bytes).
	GB = 1024 * MB

	// TB is one terabyte (1,024 gigabytes).
	TB = 1024 * GB
)

// File Permissions
//
// Standard Unix file permission constants.
const (
	// DefaultFilePermission is the default permission mode for generated files (rw-r--r--).
	DefaultFilePermission = 0644

	// DefaultDirPermission is the default permission mode for created directories (rwxr-xr-x).
	DefaultDirPermission = 0755
)

// S3 Uploads
//
// Files larger than one part are sent as multipart uploads so that a worker
// never holds more than one part in memory.
const (
	// S3PartSize is the size of every multipart upload part but the last.
	// S3 requires at least 5 MB and at most 10,000 parts per object.
	S3PartSize = 8 * MB
)
