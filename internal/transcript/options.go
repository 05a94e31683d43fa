// Package transcript renders an ordered list of Discord messages into a
// single self-contained HTML document.
package transcript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/martyport/discord-transcript-generator/internal/domain"
)

// defaultComponentVersion pins the client-side component runtime loaded in
// deferred mode. Overridable through Options.ComponentVersion so the core
// never reads package metadata at run time.
const defaultComponentVersion = "3.6.1"

const maxInlineAssetBytes = 8 * 1024 * 1024

// Options configures one generation run. It is never mutated once Render
// has been called; every stage reads the same instance.
type Options struct {
	Messages  []*domain.Message
	Channel   *domain.Channel
	Resolvers domain.Resolvers

	// PoweredBy appends the attribution line to the footer.
	PoweredBy bool
	// FooterText overrides the built-in footer wording. {number} expands
	// to the message count and {s} to a plural suffix.
	FooterText string
	// SaveImages inlines image attachments as data URIs.
	SaveImages bool
	// Favicon is "guild" for the guild icon, or an explicit URL.
	Favicon string
	// Hydrate selects the self-contained output mode: components are
	// pre-rendered to plain HTML and no external runtime is referenced.
	Hydrate bool

	// URL templates. When set, they replace the CDN URLs the model carries.
	// Placeholder tokens ([guildId], [userId], [userAvatar], ...) are
	// substituted literally.
	CustomGuildIconURL  string
	CustomAttachmentURL string
	CustomAvatarURL     string
	CustomRoleIconURL   string

	// ComponentVersion selects the runtime version referenced in deferred
	// mode. Defaults to defaultComponentVersion.
	ComponentVersion string

	// FetchAsset downloads a URL for attachment inlining. Defaults to a
	// plain HTTP GET. Failures are non-fatal.
	FetchAsset func(ctx context.Context, url string) (data []byte, contentType string, err error)

	// Now supplies the generation timestamp. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

func (o *Options) validate() error {
	if o.Channel == nil {
		return fmt.Errorf("transcript: channel is required")
	}
	if o.Resolvers.Channel == nil || o.Resolvers.User == nil || o.Resolvers.Role == nil {
		return fmt.Errorf("transcript: all resolver callbacks are required")
	}
	return nil
}

// withDefaults returns a copy with every optional field filled in.
func (o Options) withDefaults() Options {
	if o.ComponentVersion == "" {
		o.ComponentVersion = defaultComponentVersion
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.FetchAsset == nil {
		o.FetchAsset = fetchAssetHTTP
	}
	if o.Favicon == "" {
		o.Favicon = "guild"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// expandURLTemplate substitutes [token] placeholders in a configured URL
// template. Pairs alternate token, value.
func expandURLTemplate(tmpl string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func fetchAssetHTTP(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxInlineAssetBytes))
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}
