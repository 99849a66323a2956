package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			LogFile:  "~/.wearctl/wearctl.log",
		},
		Bridge: BridgeConfig{
			Tool:           "adb",
			TimeoutSeconds: 30,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "~/.wearctl/history.db",
		},
		Profiles: ProfilesConfig{
			Dir: "~/.wearctl/profiles",
		},
	}
}
