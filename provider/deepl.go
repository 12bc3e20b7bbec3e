package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ZaguanLabs/chattl"
)

// DeepL endpoints. Free-tier keys end in ":fx" and must use the free host.
const (
	DeepLFreeURL = "https://api-free.deepl.com/v2/translate"
	DeepLProURL  = "https://api.deepl.com/v2/translate"
)

// DeepLConfig holds configuration for the DeepL provider.
type DeepLConfig struct {
	FreeURL    string       // Endpoint for ":fx" keys (default: DeepLFreeURL)
	ProURL     string       // Endpoint for other keys (default: DeepLProURL)
	HTTPClient *http.Client // Custom HTTP client (optional)
}

// DeepLProvider translates through the DeepL REST API.
type DeepLProvider struct {
	freeURL string
	proURL  string
	client  *http.Client
}

// NewDeepLProvider creates a new DeepL provider.
func NewDeepLProvider(cfg DeepLConfig) *DeepLProvider {
	p := &DeepLProvider{
		freeURL: cfg.FreeURL,
		proURL:  cfg.ProURL,
		client:  cfg.HTTPClient,
	}
	if p.freeURL == "" {
		p.freeURL = DeepLFreeURL
	}
	if p.proURL == "" {
		p.proURL = DeepLProURL
	}
	if p.client == nil {
		p.client = defaultHTTPClient()
	}
	return p
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate implements Provider.
func (p *DeepLProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if req.APIKey == "" {
		return "", &chattl.ProviderError{Provider: chattl.ProviderDeepL, Message: "missing API key"}
	}

	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("target_lang", chattl.DeepLTargetCode(req.TargetLang))
	if source := chattl.DeepLSourceCode(req.SourceLang); source != "" {
		form.Set("source_lang", source)
	}
	if req.Formality != "" && req.Formality != chattl.FormalityDefault {
		form.Set("formality", string(req.Formality))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(req.APIKey), strings.NewReader(form.Encode()))
	if err != nil {
		return "", &chattl.ProviderError{Provider: chattl.ProviderDeepL, Message: "build request", Cause: err}
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := do(p.client, chattl.ProviderDeepL, httpReq)
	if err != nil {
		return "", err
	}

	var resp deeplResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", invalidResponse(chattl.ProviderDeepL, err)
	}
	if len(resp.Translations) == 0 {
		return "", invalidResponse(chattl.ProviderDeepL, nil)
	}
	return resp.Translations[0].Text, nil
}

func (p *DeepLProvider) endpoint(apiKey string) string {
	if strings.HasSuffix(apiKey, ":fx") {
		return p.freeURL
	}
	return p.proURL
}

// Verify DeepLProvider implements Provider
var _ Provider = (*DeepLProvider)(nil)
