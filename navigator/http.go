package navigator

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBodySize bounds how much of a response body is kept for assertions.
const maxBodySize = 16 * 1024 * 1024

// HTTPNavigator navigates with a plain HTTP client, following redirects the way a browser
// would. It does not run scripts: the title and text come from the HTML as served.
type HTTPNavigator struct {
	client *http.Client
}

// NewHTTPNavigator creates an HTTPNavigator. If client is nil, a client with default settings
// is used; timeouts come from the Context passed to Navigate.
func NewHTTPNavigator(client *http.Client) *HTTPNavigator {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPNavigator{client: client}
}

func (n *HTTPNavigator) Navigate(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, &NavigationError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	resp, err := n.client.Do(req)
	if err != nil {
		return Response{}, &NavigationError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Response{}, &NavigationError{URL: url, Err: fmt.Errorf("error reading response body: %w", err)}
	}

	r := Response{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Header: resp.Header,
		Text:   string(body),
		Body:   body,
	}
	if ct := r.ContentType(); ct == "text/html" || ct == "application/xhtml+xml" {
		title, text, err := extractTitleAndText(body)
		if err == nil {
			r.Title, r.Text = title, text
		}
	}
	return r, nil
}

func (n *HTTPNavigator) Close() error {
	n.client.CloseIdleConnections()
	return nil
}
