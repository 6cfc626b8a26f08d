package driven

// ConfigStore is a key/value view of the config file. Keys are dotted paths
// such as "agent.max_tokens".
//
// The typed getters never fail: a missing key, or a value that cannot be
// converted, yields the zero value. Implementations differ in how eagerly
// they convert; callers that must tell "unset" from "zero" use Get.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores value and persists it straight away.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is where the configuration lives, or ":memory:".
	Path() string
}
