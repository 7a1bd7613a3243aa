package domain

// Credential names understood by the enrichment pipeline and generative client
const (
	CredentialClassifier = "huggingface_api_key"
	CredentialVision     = "google_vision_api_key"
	CredentialGenerative = "gemini_api_key"
)

// KnownCredentials lists every credential name the service reads
var KnownCredentials = []string{CredentialClassifier, CredentialVision, CredentialGenerative}

// Credentials maps a credential name to its secret. A missing or empty entry means
// the corresponding source is unavailable.
type Credentials map[string]string

// Get returns the secret for name and whether it is usable
func (c Credentials) Get(name string) (string, bool) {
	secret, ok := c[name]
	return secret, ok && secret != ""
}
