package configadapter

import (
	"os"
	"strconv"
	"strings"

	"amfcore/pkg/logging"
)

// EnvFallback implements the §6 SERVICE_PARAM-shaped environment-variable
// contract: a variable is consulted only when the corresponding
// configuration attribute is unset, and a variable that fails to parse is
// logged and the compiled-in default kept — grounded on the teacher's
// layered config loader (internal/config/loader.go), generalized from
// YAML-file layering to env-var/config-object layering.
type EnvFallback struct {
	// Lookup is overridable for tests; defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// NewEnvFallback builds an EnvFallback reading from the real process
// environment.
func NewEnvFallback() EnvFallback {
	return EnvFallback{Lookup: os.LookupEnv}
}

func (e EnvFallback) lookup(key string) (string, bool) {
	if e.Lookup != nil {
		return e.Lookup(key)
	}
	return os.LookupEnv(key)
}

// String returns the env var named name if attrs lacks key (or holds a blank
// value), falling back to def if neither is set.
func (e EnvFallback) String(attrs RawObject, key, name, def string) string {
	if v, ok := attrs[key]; ok && v != "" {
		return v
	}
	if v, ok := e.lookup(name); ok && v != "" {
		return v
	}
	return def
}

// Int behaves like String but parses the resolved value as an integer,
// logging and keeping def if parsing fails.
func (e EnvFallback) Int(attrs RawObject, key, name string, def int) int {
	raw := e.String(attrs, key, name, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logging.Warn("configadapter", "env var %s=%q is not an integer, keeping default %d", name, raw, def)
		return def
	}
	return n
}

// Bool behaves like String but parses the resolved value as a boolean.
func (e EnvFallback) Bool(attrs RawObject, key, name string, def bool) bool {
	raw := e.String(attrs, key, name, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		logging.Warn("configadapter", "env var %s=%q is not a boolean, keeping default %v", name, raw, def)
		return def
	}
	return b
}

// ServiceParamName derives the SERVICE_PARAM-shaped env var name for an
// attribute, e.g. "saAmfNodeSuFailOverMax" -> "AMF_NODE_SU_FAIL_OVER_MAX".
func ServiceParamName(attr string) string {
	trimmed := strings.TrimPrefix(attr, "saAmf")
	var b strings.Builder
	b.WriteString("AMF_")
	for i, r := range trimmed {
		if r >= 'A' && r <= 'Z' && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
