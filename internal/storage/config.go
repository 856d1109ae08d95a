package storage

// MinIOConfig holds the object storage connection used for exports.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// Prefix is prepended to every exported object key.
	Prefix string
}

// Enabled reports whether an endpoint has been configured.
func (c *MinIOConfig) Enabled() bool {
	return c != nil && c.Endpoint != ""
}
