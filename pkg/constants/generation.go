package constants

// Generation Defaults
//
// These values describe a run when nothing is configured: four workers
// filling one gigabyte of ".tile" files in the current directory.
const (
	// DefaultWorkerCount is the number of concurrent workers.
	DefaultWorkerCount = 4

	// DefaultWidthMin is the smallest number of bytes per write operation.
	DefaultWidthMin = 8000 * Byte

	// DefaultWidthMax is the largest number of bytes per write operation.
	DefaultWidthMax = 10000 * Byte

	// DefaultHeightMin is the smallest number of write operations per file.
	DefaultHeightMin = 3000

	// DefaultHeightMax is the largest number of write operations per file.
	DefaultHeightMax = 4000

	// DefaultWorkload is the total volume limit of a run in bytes.
	DefaultWorkload = 1 * GB

	// DefaultOutputDir is the target directory of a run.
	DefaultOutputDir = "."

	// DefaultNameTemplate renders names such as "k2-0f8e...c1.tile".
	DefaultNameTemplate = "k%(level)d-%(file_id)s.tile"
)

// File Levels
//
// Every worker sweeps levels MinLevel..MaxLevel. Level 0 yields a single
// file, level k yields between k and 2k files.
const (
	// MinLevel is the first level of a sweep.
	MinLevel = 0

	// MaxLevel is the last level of a sweep (inclusive).
	MaxLevel = 4

	// LevelCount is the number of levels visited by one sweep.
	LevelCount = MaxLevel - MinLevel + 1
)
