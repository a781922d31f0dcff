package constants

// Configuration Limits.
const (
	// MaxWorkerCount bounds the number of workers a single run may start.
	// Prevents runaway goroutine counts from typos in config.
	MaxWorkerCount = 1024

	// MaxWidth bounds the bytes per write operation, which is also the size
	// of the buffer every worker allocates.
	MaxWidth = 64 * MB

	// MaxHeight bounds the number of write operations per file.
	MaxHeight = 16 * 1024 * 1024

	// MaxFileSize bounds the declared size of a single file, WidthMax
	// times HeightMax. Object stores receive at most
	// MaxFileSize/S3PartSize parts.
	MaxFileSize = 64 * GB
)

// AWS S3 Validation Constants
//
// These limits are defined by AWS S3 bucket naming rules.
// Reference: https://docs.aws.amazon.com/AmazonS3/latest/userguide/bucketnamingrules.html
const (
	// S3BucketNameMinLength is the minimum allowed S3 bucket name length.
	S3BucketNameMinLength = 3

	// S3BucketNameMaxLength is the maximum allowed S3 bucket name length.
	S3BucketNameMaxLength = 63

	// S3RegionMinLength is the minimum allowed AWS region string length.
	S3RegionMinLength = 2

	// S3RegionMaxLength is the maximum allowed AWS region string length.
	S3RegionMaxLength = 20
)

// Configuration Redaction.
const (
	// RedactedValue is the placeholder for redacted credentials in logs/output.
	RedactedValue = "***REDACTED***"
)
