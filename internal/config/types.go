package config

type Config struct {
	DatabaseURL string
	JWTSecret   string
	Environment string
	Port        string
}
