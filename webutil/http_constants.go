package webutil

const (
	// Header Keys
	HeaderContentType = "Content-Type"

	// HeaderXAuth carries the session token on authenticated requests and
	// returns freshly issued tokens on signup/login responses.
	HeaderXAuth = "x-auth"

	// Content Types
	ContentTypeJSONUTF8      = "application/json; charset=utf-8"
	ContentTypeTextPlainUTF8 = "text/plain; charset=utf-8"
)
