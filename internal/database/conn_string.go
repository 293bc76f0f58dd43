package database

import (
	"net"
	"net/url"
	"strconv"

	"github.com/forbin-capital/forbin-go/internal/config"
)

// ApplicationName tags archive sessions in pg_stat_activity.
const ApplicationName = "forbin-archive"

// BuildConnString renders the archive database settings as a postgres:// URL.
// Credentials are escaped; IPv6 hosts are bracketed.
func BuildConnString(cfg config.DBConfig) string {
	return connURL(cfg).String()
}

// RedactedConnString is BuildConnString with the password masked, for logs.
func RedactedConnString(cfg config.DBConfig) string {
	return connURL(cfg).Redacted()
}

func connURL(cfg config.DBConfig) *url.URL {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = config.DefaultDBSSLMode
	}

	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("application_name", ApplicationName)

	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: query.Encode(),
	}
}
