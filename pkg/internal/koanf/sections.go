package koanf

// Shared configuration sections reused by every service config struct.

type Postgres struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	DB       string `koanf:"db"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode"`
}

type Redis struct {
	Address string `koanf:"address"`
}

type HttpServer struct {
	Address string `koanf:"address"`
}
