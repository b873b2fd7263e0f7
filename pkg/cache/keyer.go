package cache

// Keyer generates cache keys for the cacheable pipeline stages. Keys
// embed a hash of every input that affects the stage's output, so a
// change to any input produces a distinct key.
type Keyer interface {
	// HTTPKey generates a key for a cached HTTP response.
	HTTPKey(namespace, url string) string

	// GenerationKey generates a key for an assistant generation result.
	GenerationKey(model, prompt string, opts GenerationKeyOpts) string

	// DefinitionKey generates a key for an assembled dashboard
	// definition, derived from the hash of its generated widgets.
	DefinitionKey(widgetsHash string, opts DefinitionKeyOpts) string
}

// GenerationKeyOpts are the inputs, beyond model and prompt, that shape
// a generation result.
type GenerationKeyOpts struct {
	Dataset    string `json:"dataset"`
	MaxWidgets int    `json:"max_widgets"`
}

// DefinitionKeyOpts are the page-level inputs that shape an assembled
// definition.
type DefinitionKeyOpts struct {
	PageName    string `json:"page_name"`
	DisplayName string `json:"display_name"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for a cached HTTP response.
func (k *DefaultKeyer) HTTPKey(namespace, url string) string {
	return "http:" + namespace + ":" + url
}

// GenerationKey generates a key for an assistant generation result.
func (k *DefaultKeyer) GenerationKey(model, prompt string, opts GenerationKeyOpts) string {
	return hashKey("gen", model, prompt, opts)
}

// DefinitionKey generates a key for an assembled dashboard definition.
func (k *DefaultKeyer) DefinitionKey(widgetsHash string, opts DefinitionKeyOpts) string {
	return hashKey("def", widgetsHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so that separate workspaces
// or users get isolated cache namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every
// generated key. A nil inner keyer falls back to the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed HTTP response key.
func (s *ScopedKeyer) HTTPKey(namespace, url string) string {
	return s.prefix + s.inner.HTTPKey(namespace, url)
}

// GenerationKey generates a prefixed generation result key.
func (s *ScopedKeyer) GenerationKey(model, prompt string, opts GenerationKeyOpts) string {
	return s.prefix + s.inner.GenerationKey(model, prompt, opts)
}

// DefinitionKey generates a prefixed definition key.
func (s *ScopedKeyer) DefinitionKey(widgetsHash string, opts DefinitionKeyOpts) string {
	return s.prefix + s.inner.DefinitionKey(widgetsHash, opts)
}

// Ensure implementations satisfy Keyer.
var (
	_ Keyer = (*DefaultKeyer)(nil)
	_ Keyer = (*ScopedKeyer)(nil)
)
