package config

const (
	defaultLibraryDir       = "~/audiobooks"
	defaultLogDir           = "~/.local/share/shelftidy/logs"
	defaultMetadataFilename = "metadata.json"
	defaultAuditLogFilename = "tidy_library_log.txt"
	defaultMinVolumeWidth   = 2
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

func defaultAudioExtensions() []string {
	return []string{".m4b", ".m4a", ".mp3", ".flac", ".ogg", ".opus"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Library: Library{
			MetadataFilename: defaultMetadataFilename,
			AudioExtensions:  defaultAudioExtensions(),
			AuditLogFilename: defaultAuditLogFilename,
			VerifyChecksums:  false,
			MinVolumeWidth:   defaultMinVolumeWidth,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
