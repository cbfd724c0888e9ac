package entities

// Config holds user and project defaults for the build command.
// Nil or empty fields are unset and do not override lower layers.
type Config struct {
	OutputFormat     string
	LambdaDir        string
	TargetDir        string
	ARM64            *bool
	DisableZigLinker *bool
	SignKeyPath      string
	// SignPassphrase is only ever read from the environment.
	SignPassphrase string
}

// Merge returns c with every field set in override applied on top.
func (c Config) Merge(override Config) Config {
	if override.OutputFormat != "" {
		c.OutputFormat = override.OutputFormat
	}
	if override.LambdaDir != "" {
		c.LambdaDir = override.LambdaDir
	}
	if override.TargetDir != "" {
		c.TargetDir = override.TargetDir
	}
	if override.ARM64 != nil {
		c.ARM64 = override.ARM64
	}
	if override.DisableZigLinker != nil {
		c.DisableZigLinker = override.DisableZigLinker
	}
	if override.SignKeyPath != "" {
		c.SignKeyPath = override.SignKeyPath
	}
	if override.SignPassphrase != "" {
		c.SignPassphrase = override.SignPassphrase
	}
	return c
}

// Bool dereferences an optional flag, treating nil as false.
func Bool(b *bool) bool {
	return b != nil && *b
}
