package config_test

import (
	"math"
	"testing"

	"github.com/sgaunet/tilefill/pkg/config"
	"github.com/sgaunet/tilefill/pkg/constants"
	"github.com/sgaunet/tilefill/pkg/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromFile(t *testing.T) {
	// TestNewConfigFromFile tests the NewConfigFromFile function
	t.Run("normal case", func(t *testing.T) {
		cfg, err := config.NewConfigFromFile("testdata/good-cfg.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)
		require.Equal(t, 8, cfg.WorkerCount)
		require.Equal(t, config.Range{Min: 100, Max: 200}, cfg.Width())
		require.Equal(t, config.Range{Min: 10, Max: 20}, cfg.Height())
		require.Equal(t, "t%(level)d_%(file_id)s_%(width)dx%(height)d.bin", cfg.NameTemplate)
		require.Equal(t, "/data/fill", cfg.OutputDir)
		require.Equal(t, int64(1048576), cfg.Workload)
		require.Equal(t, uint64(1234), cfg.Seed)
		require.Equal(t, "mybucket", cfg.S3cfg.BucketName)
		require.Equal(t, "myregion", cfg.S3cfg.Region)
		require.Equal(t, "myendpoint", cfg.S3cfg.Endpoint)
		require.Equal(t, "mybucketpath", cfg.S3cfg.BucketPath)
		require.Equal(t, false, cfg.NoLogTime)
		require.Equal(t, "echo prefill", cfg.Hooks.PreFill)
		require.Equal(t, "echo postfill %OUTPUTDIR%", cfg.Hooks.PostFill)
	})
	t.Run("file not found", func(t *testing.T) {
		_, err := config.NewConfigFromFile("testdata/unknown.yaml")
		require.Error(t, err)
	})
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := config.NewConfigFromFile("testdata/invalid-cfg.yaml")
		require.Error(t, err)
	})
	t.Run("bad template", func(t *testing.T) {
		_, err := config.NewConfigFromFile("testdata/bad-template-cfg.yaml")
		require.Error(t, err)
		require.ErrorIs(t, err, naming.ErrTemplate)
	})
	t.Run("bad template without validation", func(t *testing.T) {
		cfg, err := config.NewConfigFromFileNoValidate("testdata/bad-template-cfg.yaml")
		require.NoError(t, err)
		require.Equal(t, 2, cfg.WorkerCount)
		// unset keys fall back to env-default values
		require.Equal(t, config.Range{Min: 8000, Max: 10000}, cfg.Width())
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("AWS_ACCESS_KEY_ID", "")
		t.Setenv("AWS_SECRET_ACCESS_KEY", "")
		cfg, err := config.NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
		assert.NoError(t, cfg.Validate())
	})
	t.Run("valid environment variables", func(t *testing.T) {
		t.Setenv("WORKERS", "2")
		t.Setenv("WIDTH_MIN", "1")
		t.Setenv("WIDTH_MAX", "2")
		t.Setenv("HEIGHT_MIN", "3")
		t.Setenv("HEIGHT_MAX", "4")
		t.Setenv("NAME_TEMPLATE", "%(file_id)s.bin")
		t.Setenv("OUTPUT_DIR", "/data/fill")
		t.Setenv("WORKLOAD", "1000")
		t.Setenv("SEED", "99")
		t.Setenv("RATE_LIMIT", "4096")
		t.Setenv("S3ENDPOINT", "myendpoint")
		t.Setenv("S3BUCKETNAME", "mybucket")
		t.Setenv("S3BUCKETPATH", "mybucketpath")
		t.Setenv("S3REGION", "myregion")
		t.Setenv("AWS_ACCESS_KEY_ID", "myaccesskey")
		t.Setenv("AWS_SECRET_ACCESS_KEY", "mysecretkey")
		t.Setenv("NOLOGTIME", "true")
		t.Setenv("PREFILL", "echo pre")

		cfg, err := config.NewConfigFromEnv()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		require.Equal(t, 2, cfg.WorkerCount)
		require.Equal(t, config.Range{Min: 1, Max: 2}, cfg.Width())
		require.Equal(t, config.Range{Min: 3, Max: 4}, cfg.Height())
		require.Equal(t, "%(file_id)s.bin", cfg.NameTemplate)
		require.Equal(t, "/data/fill", cfg.OutputDir)
		require.Equal(t, int64(1000), cfg.Workload)
		require.Equal(t, uint64(99), cfg.Seed)
		require.Equal(t, int64(4096), cfg.RateLimit)
		require.Equal(t, "myendpoint", cfg.S3cfg.Endpoint)
		require.Equal(t, "mybucket", cfg.S3cfg.BucketName)
		require.Equal(t, "mybucketpath", cfg.S3cfg.BucketPath)
		require.Equal(t, "myregion", cfg.S3cfg.Region)
		require.Equal(t, "myaccesskey", cfg.S3cfg.AccessKey)
		require.Equal(t, "mysecretkey", cfg.S3cfg.SecretKey)
		require.Equal(t, true, cfg.NoLogTime)
		require.Equal(t, "echo pre", cfg.Hooks.PreFill)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr error
	}{
		{"defaults", func(_ *config.Config) {}, nil},
		{"zero workers", func(c *config.Config) { c.WorkerCount = 0 }, config.ErrInvalidWorkerCount},
		{"too many workers", func(c *config.Config) { c.WorkerCount = 100000 }, config.ErrInvalidWorkerCount},
		{"width min above max", func(c *config.Config) { c.WidthMin, c.WidthMax = 10, 5 }, config.ErrInvalidRange},
		{"negative height", func(c *config.Config) { c.HeightMin = -1 }, config.ErrInvalidRange},
		{"huge width", func(c *config.Config) { c.WidthMax = 1 << 30 }, config.ErrInvalidRange},
		{"huge height", func(c *config.Config) { c.HeightMax = math.MaxInt }, config.ErrInvalidRange},
		{"height just above limit", func(c *config.Config) { c.HeightMax = constants.MaxHeight + 1 }, config.ErrInvalidRange},
		{"size wraps int64", func(c *config.Config) {
			c.WidthMin, c.WidthMax = 1<<26, 1<<26
			c.HeightMin, c.HeightMax = 1, 1<<38
		}, config.ErrInvalidRange},
		{"file too large", func(c *config.Config) {
			c.WidthMax = constants.MaxWidth
			c.HeightMax = constants.MaxHeight
		}, config.ErrFileTooLarge},
		{"largest file", func(c *config.Config) {
			c.WidthMax = constants.MaxWidth
			c.HeightMin, c.HeightMax = 1, constants.MaxFileSize/constants.MaxWidth
		}, nil},
		{"zero ranges are allowed", func(c *config.Config) {
			c.WidthMin, c.WidthMax, c.HeightMin, c.HeightMax = 0, 0, 0, 0
		}, nil},
		{"negative workload", func(c *config.Config) { c.Workload = -1 }, config.ErrInvalidWorkload},
		{"zero workload", func(c *config.Config) { c.Workload = 0 }, nil},
		{"negative rate limit", func(c *config.Config) { c.RateLimit = -5 }, config.ErrInvalidRateLimit},
		{"bad template", func(c *config.Config) { c.NameTemplate = "%(nope)d" }, naming.ErrTemplate},
		{"no output", func(c *config.Config) { c.OutputDir = "" }, config.ErrNoOutput},
		{"s3 without local dir", func(c *config.Config) {
			c.OutputDir = ""
			c.S3cfg = config.S3Config{BucketName: "bucket", Region: "eu-west-3"}
		}, nil},
		{"s3 short bucket", func(c *config.Config) {
			c.S3cfg = config.S3Config{BucketName: "b", Region: "eu-west-3"}
		}, config.ErrInvalidS3Config},
		{"s3 missing region", func(c *config.Config) {
			c.S3cfg = config.S3Config{BucketName: "bucket"}
		}, config.ErrInvalidS3Config},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.True(t, cfg.IsConfigValid())
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.False(t, cfg.IsConfigValid())
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := config.Default()
	cfg.S3cfg.AccessKey = "myaccesskey"
	cfg.S3cfg.SecretKey = "mysecretkey"

	out := cfg.Redacted()
	assert.NotContains(t, out, "myaccesskey")
	assert.NotContains(t, out, "mysecretkey")
	assert.Contains(t, out, "***REDACTED***")
	// original is untouched
	assert.Equal(t, "myaccesskey", cfg.S3cfg.AccessKey)
	assert.Contains(t, cfg.String(), "myaccesskey")
}
