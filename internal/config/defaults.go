package config

const (
	defaultLogDir           = "~/.local/share/pybundle/logs"
	defaultDataDir          = "~/.local/share/pybundle"
	defaultPython           = "python"
	defaultModule           = "PyInstaller"
	defaultKillGraceSeconds = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			DataDir: defaultDataDir,
		},
		Tool: Tool{
			Python:           defaultPython,
			Module:           defaultModule,
			KillGraceSeconds: defaultKillGraceSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
