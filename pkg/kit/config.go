package kit

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

type ConfigOptions struct {
	// EnvPrefix namespaces environment variables, e.g. CATALOG_ADDR.
	EnvPrefix string
	// Files are tried in order; missing files are skipped.
	Files []string
	// SkipFlags ignores os.Args. Tests set it.
	SkipFlags bool
}

// LoadConfig fills dst from struct defaults, then YAML files, then
// environment, then flags.
func LoadConfig(dst any, opts ConfigOptions) error {
	loader := aconfig.LoaderFor(dst, aconfig.Config{
		EnvPrefix: opts.EnvPrefix,
		Files:     opts.Files,
		SkipFlags: opts.SkipFlags,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return errors.Wrap(err, "load config")
	}
	return nil
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `default:"true" usage:"Expose /metrics"`
	Token   string `usage:"Bearer token required by /metrics; empty locks the endpoint"`
}
