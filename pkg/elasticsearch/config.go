package elasticsearch

import (
	"fmt"
	"time"
)

// Config holds Elasticsearch cluster connection parameters with environment
// variable mapping. Uses struct tags compatible with
// github.com/dmitrymomot/searchkit/pkg/config for zero-config
// environment-based initialization.
type Config struct {
	Host     string `env:"ELASTICSEARCH_HOST,required"`
	Port     int    `env:"ELASTICSEARCH_PORT" envDefault:"9200"`
	Username string `env:"ELASTICSEARCH_USERNAME"`
	Password string `env:"ELASTICSEARCH_PASSWORD"`

	TLSEnabled         bool   `env:"ELASTICSEARCH_TLS_ENABLED" envDefault:"false"`
	VerifyHostnames    bool   `env:"ELASTICSEARCH_TLS_VERIFY_HOSTNAMES" envDefault:"true"`
	KeyStorePath       string `env:"ELASTICSEARCH_TLS_KEYSTORE_PATH"`
	KeyStorePassword   string `env:"ELASTICSEARCH_TLS_KEYSTORE_PASSWORD"`
	TrustStorePath     string `env:"ELASTICSEARCH_TLS_TRUSTSTORE_PATH"`
	TrustStorePassword string `env:"ELASTICSEARCH_TLS_TRUSTSTORE_PASSWORD"`

	ConnectTimeout time.Duration `env:"ELASTICSEARCH_CONNECT_TIMEOUT" envDefault:"1s"`   // ConnectTimeout bounds dialing a cluster node.
	RequestTimeout time.Duration `env:"ELASTICSEARCH_REQUEST_TIMEOUT" envDefault:"10s"`  // RequestTimeout bounds waiting for a response.
	MaxRetryTime   time.Duration `env:"ELASTICSEARCH_MAX_RETRY_TIME" envDefault:"20s"`   // MaxRetryTime is the total backoff budget across retries.
	MaxRetries     int           `env:"ELASTICSEARCH_MAX_RETRIES" envDefault:"3"`        // MaxRetries is the number of transport-level retries.
	DisableRetry   bool          `env:"ELASTICSEARCH_DISABLE_RETRY" envDefault:"false"`  // DisableRetry turns transport-level retries off entirely.
	ScrollSize     int           `env:"ELASTICSEARCH_SCROLL_SIZE" envDefault:"1000"`     // ScrollSize is the server-side page size for scroll searches.
	ScrollTimeout  time.Duration `env:"ELASTICSEARCH_SCROLL_TIMEOUT" envDefault:"1m"`    // ScrollTimeout is the lease duration of a scroll cursor.
}

// scheme returns the URL scheme matching the TLS flag.
func (c Config) scheme() string {
	if c.TLSEnabled {
		return "https"
	}
	return "http"
}

// seedAddress is the configured entry point used before topology discovery.
func (c Config) seedAddress() string {
	return fmt.Sprintf("%s://%s:%d", c.scheme(), c.Host, c.Port)
}
