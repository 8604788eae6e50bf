package config

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
	Tavus  TavusConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	tavusCfg, err := LoadTavus()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
		Tavus:  tavusCfg,
	}, nil
}
