package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps uploaded dataset size.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"64"`
	// PreviewRows is the default number of rows returned per dataset view.
	PreviewRows int `mapstructure:"preview_rows" default:"100"`
}

// DefaultPreviewRows applies when PreviewRows is not positive.
const DefaultPreviewRows = 100

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// Preview returns the preview row count, falling back to DefaultPreviewRows.
func (c Config) Preview() int {
	if c.PreviewRows <= 0 {
		return DefaultPreviewRows
	}
	return c.PreviewRows
}
