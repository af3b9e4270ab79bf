package navigator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Chrome aborts a navigation whose response it decides to download rather than render, such
// as application/x-trig. The document response has still been received at that point.
const downloadAbortedError = "net::ERR_ABORTED"

const bodyTextScript = `document.body ? document.body.innerText : ""`

// BrowserNavigator navigates with a headless Chrome instance. Each navigation runs in a fresh
// tab, so nothing is shared between navigations except the browser process.
type BrowserNavigator struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// NewBrowserNavigator starts a headless browser. Extra allocator options are appended to
// chromedp's defaults, for instance chromedp.ExecPath to pick a specific binary.
func NewBrowserNavigator(ctx context.Context, opts ...chromedp.ExecAllocatorOption) (*BrowserNavigator, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], opts...)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("could not start browser: %w", err)
	}
	return &BrowserNavigator{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

func (b *BrowserNavigator) Navigate(ctx context.Context, url string) (Response, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var lock sync.Mutex
	var document *network.Response
	var requestID network.RequestID
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			lock.Lock()
			if document == nil {
				document, requestID = e.Response, e.RequestID
			}
			lock.Unlock()
		}
	})
	captured := func() (*network.Response, network.RequestID) {
		lock.Lock()
		defer lock.Unlock()
		return document, requestID
	}

	navErr := chromedp.Run(tabCtx, network.Enable(), chromedp.Navigate(url))
	doc, docRequestID := captured()
	if navErr != nil && (doc == nil || !strings.Contains(navErr.Error(), downloadAbortedError)) {
		return Response{}, &NavigationError{URL: url, Err: navErr}
	}
	if doc == nil {
		return Response{}, &NavigationError{URL: url, Err: errors.New("browser reported no document response")}
	}

	r := Response{
		URL:    doc.URL,
		Status: int(doc.Status),
		Header: convertHeaders(doc.Headers),
	}
	if navErr != nil {
		// downloaded, so there is no rendered page to read
		return r, nil
	}
	if err := chromedp.Run(tabCtx,
		chromedp.Title(&r.Title),
		chromedp.Evaluate(bodyTextScript, &r.Text),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// not available for every response; the rendered text is used instead
			body, err := network.GetResponseBody(docRequestID).Do(ctx)
			if err == nil {
				r.Body = body
			}
			return nil
		}),
	); err != nil {
		return Response{}, &NavigationError{URL: url, Err: fmt.Errorf("could not read rendered page: %w", err)}
	}
	if r.Body == nil {
		r.Body = []byte(r.Text)
	} else if ct := r.ContentType(); ct != "text/html" && ct != "application/xhtml+xml" {
		// the browser's viewer for plain documents adds its own text
		r.Text = string(r.Body)
	}
	return r, nil
}

func (b *BrowserNavigator) Close() error {
	b.browserCancel()
	b.allocCancel()
	return nil
}

// Chrome reports repeated headers as a single value joined with newlines.
func convertHeaders(h network.Headers) http.Header {
	ret := make(http.Header, len(h))
	for name, value := range h {
		for _, v := range strings.Split(fmt.Sprint(value), "\n") {
			ret.Add(name, v)
		}
	}
	return ret
}
