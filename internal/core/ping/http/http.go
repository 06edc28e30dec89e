// Package http implements the HTTP GET ping engine. No third-party HTTP
// client is wired in here: the teacher's dependency graph only uses one
// (gin) server-side, and net/http's RoundTripper already gives us
// per-request timeouts and idle-connection pooling without an external
// client, so this is the one place the ambient stack deliberately stays
// on the standard library (see DESIGN.md).
package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/ping"
)

// ChromeUserAgent is the fixed browser-style user agent spec.md §6 requires.
const ChromeUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func newClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
			IdleConnTimeout:     5 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}
}

// Run issues GET / against setting.IP (or Hostname if set) once per
// probe; RTT is time-to-first-response, HTTP status is never inspected.
func Run(ctx context.Context, run *orchestrator.Run, setting model.PingSetting) (model.PingStat, error) {
	url, port := buildURL(setting)
	client := newClient(time.Duration(setting.TimeoutMS) * time.Millisecond)

	probe := func(ctx context.Context, seq uint32) model.PingSample {
		return probeOnce(ctx, client, url, setting, port, seq)
	}
	return ping.Run(ctx, run, setting, probe)
}

func buildURL(setting model.PingSetting) (string, uint16) {
	host := setting.Hostname
	if host == "" {
		host = setting.IP.String()
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host, setting.Port
	}
	port := setting.Port
	if port == 0 {
		port = 80
	}
	scheme := "http"
	if port == 443 {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/", scheme, net.JoinHostPort(host, strconv.Itoa(int(port)))), port
}

func probeOnce(ctx context.Context, client *http.Client, url string, setting model.PingSetting, port uint16, seq uint32) model.PingSample {
	sample := model.PingSample{
		Seq: seq, IP: setting.IP, Hostname: setting.Hostname, Port: port, Protocol: model.PingHTTP,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		sample.Status = model.ErrStatus(fmt.Sprintf("build request: %v", err))
		return sample
	}
	req.Header.Set("User-Agent", ChromeUserAgent)

	started := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			sample.Status = model.TimeoutStatus(fmt.Sprintf("timeout (>%dms)", setting.TimeoutMS))
		} else {
			sample.Status = model.ErrStatus(fmt.Sprintf("http error: %v", err))
		}
		return sample
	}
	rtt := uint64(time.Since(started).Milliseconds())
	_ = resp.Body.Close()
	sample.RTTMs = &rtt
	sample.Status = model.Done()
	return sample
}
