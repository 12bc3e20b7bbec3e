package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/spf13/cast"

	"github.com/ZaguanLabs/chattl"
)

// MyMemoryURL is the public MyMemory endpoint. It needs no key.
const MyMemoryURL = "https://api.mymemory.translated.net/get"

// MyMemoryConfig holds configuration for the MyMemory provider.
type MyMemoryConfig struct {
	URL        string       // Endpoint (default: MyMemoryURL)
	Email      string       // Optional contact address, raises the daily quota
	HTTPClient *http.Client // Custom HTTP client (optional)
}

// MyMemoryProvider translates through the keyless MyMemory API.
type MyMemoryProvider struct {
	url    string
	email  string
	client *http.Client
}

// NewMyMemoryProvider creates a new MyMemory provider.
func NewMyMemoryProvider(cfg MyMemoryConfig) *MyMemoryProvider {
	p := &MyMemoryProvider{url: cfg.URL, email: cfg.Email, client: cfg.HTTPClient}
	if p.url == "" {
		p.url = MyMemoryURL
	}
	if p.client == nil {
		p.client = defaultHTTPClient()
	}
	return p
}

// MyMemory reports quota problems inside a 200 response, and responseStatus
// is a number or a string depending on the error path.
type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  any    `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails"`
}

// Translate implements Provider.
func (p *MyMemoryProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	query := url.Values{}
	query.Set("q", req.Text)
	query.Set("langpair", langPair(req.SourceLang, req.TargetLang))
	if p.email != "" {
		query.Set("de", p.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url+"?"+query.Encode(), nil)
	if err != nil {
		return "", &chattl.ProviderError{Provider: chattl.ProviderMyMemory, Message: "build request", Cause: err}
	}

	body, err := do(p.client, chattl.ProviderMyMemory, httpReq)
	if err != nil {
		return "", err
	}

	var resp myMemoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", invalidResponse(chattl.ProviderMyMemory, err)
	}

	status, err := cast.ToIntE(resp.ResponseStatus)
	if err != nil {
		return "", invalidResponse(chattl.ProviderMyMemory, err)
	}
	if status != http.StatusOK {
		return "", statusError(chattl.ProviderMyMemory, status, []byte(resp.ResponseDetails))
	}
	if resp.ResponseData.TranslatedText == "" {
		return "", invalidResponse(chattl.ProviderMyMemory, nil)
	}
	return resp.ResponseData.TranslatedText, nil
}

// langPair builds "source|target", or just the target when the source is
// auto-detected.
func langPair(source, target string) string {
	if chattl.IsAuto(source) {
		return target
	}
	return source + "|" + target
}

// Verify MyMemoryProvider implements Provider
var _ Provider = (*MyMemoryProvider)(nil)
