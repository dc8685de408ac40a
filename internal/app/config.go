package app

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// SchemasPath points at a single .hcl file or a directory of .hcl files
	// declaring resource schemas.
	SchemasPath string

	// ListenAddr is the address the resource server binds to.
	ListenAddr string

	LogFormat string
	LogLevel  string
}
