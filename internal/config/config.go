package config

type Config interface {
	EnvConfig
	SecurityConfig
	StoreConfig
	MailConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Security
	Stores
	Mail
}

// New reads the environment exactly once and returns an immutable Config.
// Request-handling code must never read ambient environment state; everything
// it needs is captured here and passed by reference into constructors.
func New() Config {
	return mainConfig{
		EnvVars:  newEnvVars(),
		Security: newSecurity(),
		Stores:   newStores(),
		Mail:     newMail(),
	}
}
