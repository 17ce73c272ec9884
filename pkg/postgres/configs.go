package postgres

import "time"

// Config holds everything needed to open the PostgreSQL connection pool.
//
// URL takes precedence; when it is empty the DSN is assembled from Connection.
type Config struct {
	URL               string `yaml:"url" envconfig:"DATABASE_URL"`
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

type Connection struct {
	Host     string `yaml:"host" envconfig:"POSTGRES_HOST"`
	Port     string `yaml:"port" envconfig:"POSTGRES_PORT"`
	User     string `yaml:"user" envconfig:"POSTGRES_USER"`
	Password string `yaml:"password" envconfig:"POSTGRES_PASSWORD"`
	DbName   string `yaml:"db_name" envconfig:"POSTGRES_DB"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"POSTGRES_SSLMODE"`
}

type ConnectionDetails struct {
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"POSTGRES_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"POSTGRES_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"POSTGRES_CONN_MAX_LIFETIME"`
}

// DSN returns the connection string passed to the pgx driver.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	sslMode := c.Connection.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return "host=" + c.Connection.Host +
		" port=" + c.Connection.Port +
		" user=" + c.Connection.User +
		" password=" + c.Connection.Password +
		" dbname=" + c.Connection.DbName +
		" sslmode=" + sslMode
}
