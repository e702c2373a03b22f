package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all environment-sourced settings for both pipeline stages.
type Config struct {
	Paths  PathsConfig
	Resize ResizeConfig
	B2     B2Config
}

// PathsConfig locates the source tree, derivative tree, and manifest file.
type PathsConfig struct {
	SourceDir    string
	DestDir      string
	ManifestPath string
}

// ResizeConfig parameterizes the derivative policies.
type ResizeConfig struct {
	TargetHeight int    // fixed height for regular gallery folders
	TargetWidth  int    // fixed width for the wide folder
	WideFolder   string // folder name resized by width instead of height
}

// B2Config carries Backblaze credentials and the target bucket.
type B2Config struct {
	AccountID      string
	ApplicationKey string
	BucketID       string
	ContentType    string
}

var (
	once     sync.Once
	instance *Config
)

// Load reads configuration from the environment, loading a .env file
// first if one exists. Subsequent calls return the same instance.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		viper.SetDefault("SOURCE_DIR", "./raws")
		viper.SetDefault("DEST_DIR", "./procs")
		viper.SetDefault("MANIFEST_PATH", "./listing.json")
		viper.SetDefault("TARGET_HEIGHT", 1440)
		viper.SetDefault("TARGET_WIDTH", 3440)
		viper.SetDefault("WIDE_FOLDER", "000_About")
		viper.SetDefault("UPLOAD_CONTENT_TYPE", "image/jpeg")

		viper.AutomaticEnv()

		instance = &Config{
			Paths: PathsConfig{
				SourceDir:    viper.GetString("SOURCE_DIR"),
				DestDir:      viper.GetString("DEST_DIR"),
				ManifestPath: viper.GetString("MANIFEST_PATH"),
			},
			Resize: ResizeConfig{
				TargetHeight: viper.GetInt("TARGET_HEIGHT"),
				TargetWidth:  viper.GetInt("TARGET_WIDTH"),
				WideFolder:   viper.GetString("WIDE_FOLDER"),
			},
			B2: B2Config{
				AccountID:      viper.GetString("B2_ACCOUNT_ID"),
				ApplicationKey: viper.GetString("B2_APPLICATION_KEY"),
				BucketID:       viper.GetString("B2_BUCKET_ID"),
				ContentType:    viper.GetString("UPLOAD_CONTENT_TYPE"),
			},
		}
	})

	return instance
}
