package config

// ServerConfig represents the configuration for the ingestion HTTP server
type ServerConfig struct {
	ListenAddress string
}

// AnalyzerConfig represents the configuration for the remote header analyzer
type AnalyzerConfig struct {
	FormURL     string
	MaxHTMLSize int
}

// StorageConfig represents the configuration for ticket storage
type StorageConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}

// GetAnalyzer returns the remote analyzer configuration
func (c *Config) GetAnalyzer() AnalyzerConfig {
	return AnalyzerConfig{
		FormURL:     c.GetString("analyzer.form_url"),
		MaxHTMLSize: c.GetInt("analyzer.max_html_size"),
	}
}

// GetStorage returns the storage configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:       c.GetString("storage.type"),
		SQLitePath: c.GetString("storage.sqlite_path"),
		MySQLDSN:   c.GetString("storage.mysql_dsn"),
	}
}
