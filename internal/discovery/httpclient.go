package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	// DefaultRequestTimeout bounds every provider API request.
	DefaultRequestTimeout              = 60 * time.Second
	acceptHeaderConstant               = "Accept"
	authorizationHeaderConstant        = "Authorization"
	userAgentHeaderConstant            = "User-Agent"
	jsonMediaTypeConstant              = "application/json"
	bearerAuthorizationTemplate        = "Bearer %s"
	userAgentValueConstant             = "clocscan"
	responseBodyLimitBytesConstant     = 64 << 20
	errorBodySnippetLimitBytesConstant = 512
	decodeFailureReasonTemplate        = "decode response: %v"
)

// NewHTTPClient returns a non-pooled client with the provided timeout. Non-positive timeouts use DefaultRequestTimeout.
func NewHTTPClient(requestTimeout time.Duration) *http.Client {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	httpClient := cleanhttp.DefaultClient()
	httpClient.Timeout = requestTimeout
	return httpClient
}

type requestAuthorizer func(request *http.Request)

func bearerAuthorizer(accessToken string) requestAuthorizer {
	return func(request *http.Request) {
		request.Header.Set(authorizationHeaderConstant, fmt.Sprintf(bearerAuthorizationTemplate, accessToken))
	}
}

func basicAuthorizer(username string, password string) requestAuthorizer {
	return func(request *http.Request) {
		request.SetBasicAuth(username, password)
	}
}

// fetchJSON issues a GET request and decodes a successful JSON body into target.
func fetchJSON(executionContext context.Context, httpClient *http.Client, provider Provider, requestURL string, authorize requestAuthorizer, target any) (http.Header, error) {
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, requestURL, nil)
	if requestError != nil {
		return nil, DiscoveryError{Provider: provider, URL: requestURL, Reason: requestError.Error(), Cause: requestError}
	}
	request.Header.Set(acceptHeaderConstant, jsonMediaTypeConstant)
	request.Header.Set(userAgentHeaderConstant, userAgentValueConstant)
	if authorize != nil {
		authorize(request)
	}

	response, responseError := httpClient.Do(request)
	if responseError != nil {
		return nil, DiscoveryError{Provider: provider, URL: requestURL, Reason: responseError.Error(), Cause: responseError}
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, DiscoveryError{Provider: provider, URL: requestURL, StatusCode: response.StatusCode, Reason: describeStatus(response)}
	}

	if decodeError := json.NewDecoder(io.LimitReader(response.Body, responseBodyLimitBytesConstant)).Decode(target); decodeError != nil {
		return nil, DiscoveryError{Provider: provider, URL: requestURL, StatusCode: response.StatusCode, Reason: fmt.Sprintf(decodeFailureReasonTemplate, decodeError), Cause: decodeError}
	}

	return response.Header, nil
}

func describeStatus(response *http.Response) string {
	reason := http.StatusText(response.StatusCode)
	bodySnippet, _ := io.ReadAll(io.LimitReader(response.Body, errorBodySnippetLimitBytesConstant))
	trimmedSnippet := strings.TrimSpace(string(bodySnippet))
	if len(trimmedSnippet) == 0 {
		return reason
	}
	return reason + ": " + trimmedSnippet
}
