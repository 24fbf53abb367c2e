package config

// parseEnv applies the variables a PaaS deployment usually provides:
// SECRET, DATABASE_URL and PORT.
func parseEnv(config *Config, getenv func(string) string) {
	if v := getenv("SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		config.DatabaseDSN = v
	}
	if v := getenv("PORT"); v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
}
