package challenge

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"
)

// WidgetSelector is the container id used by the locally hosted page.
const WidgetSelector = "#turnstile-widget"

var widgetPage = template.Must(template.New("widget").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>CompareHub security check</title>
<script src="https://challenges.cloudflare.com/turnstile/v0/api.js" async defer></script>
</head>
<body>
<div id="turnstile-widget" class="cf-turnstile" data-sitekey="{{.SiteKey}}" data-execution="execute" data-appearance="interaction-only"></div>
</body>
</html>
`))

// widgetServer hosts a minimal page with an execute-mode Turnstile widget on
// a loopback port. The site key must allow the "127.0.0.1" hostname.
type widgetServer struct {
	srv *http.Server
	url string
}

func startWidgetServer(siteKey string) (*widgetServer, error) {
	if siteKey == "" {
		return nil, errors.New("no site key configured")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = widgetPage.Execute(w, struct{ SiteKey string }{siteKey})
	})

	s := &widgetServer{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		url: "http://" + ln.Addr().String() + "/",
	}
	go func() { _ = s.srv.Serve(ln) }()
	return s, nil
}

func (s *widgetServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
