package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	bearerPattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)
	jwtPattern    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	// Avatar URLs from CDNs may be pre-signed. The whole URL is masked
	// because the signature is only meaningful together with the path.
	signedURLPattern = regexp.MustCompile(`(?i)^https?://\S+[?&](sig|signature|x-amz-signature|token|expires)=`)
)

// DefaultRedactOptions lists the masq rules applied to json and text output.
func DefaultRedactOptions() []masq.Option {
	opts := []masq.Option{
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(signedURLPattern),
	}

	for _, name := range []string{
		"password", "token", "api_key", "apiKey", "access_token", "refresh_token",
		"authorization", "cookie", "set_cookie", "signature", "credentials",
	} {
		opts = append(opts, masq.WithFieldName(name))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that applies DefaultRedactOptions
// plus any extra rules.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), extra...)...)
}
