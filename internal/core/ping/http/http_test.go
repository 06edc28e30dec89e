package http

import (
	"context"
	"net"
	"net/http/httptest"
	"strconv"
	"testing"

	"netpulse/internal/core/model"
)

func TestBuildURL_DefaultsPort80(t *testing.T) {
	setting := model.PingSetting{IP: net.ParseIP("1.2.3.4")}
	url, port := buildURL(setting)
	if port != 80 {
		t.Fatalf("port = %d, want 80", port)
	}
	if url != "http://1.2.3.4:80/" {
		t.Fatalf("url = %q, want http://1.2.3.4:80/", url)
	}
}

func TestBuildURL_Port443UsesHTTPS(t *testing.T) {
	setting := model.PingSetting{IP: net.ParseIP("1.2.3.4"), Port: 443}
	url, port := buildURL(setting)
	if port != 443 {
		t.Fatalf("port = %d, want 443", port)
	}
	if url != "https://1.2.3.4:443/" {
		t.Fatalf("url = %q, want https://1.2.3.4:443/", url)
	}
}

func TestBuildURL_PrefersHostname(t *testing.T) {
	setting := model.PingSetting{IP: net.ParseIP("1.2.3.4"), Hostname: "example.test", Port: 8080}
	url, _ := buildURL(setting)
	if url != "http://example.test:8080/" {
		t.Fatalf("url = %q, want http://example.test:8080/", url)
	}
}

func TestBuildURL_PassesThroughExplicitScheme(t *testing.T) {
	setting := model.PingSetting{Hostname: "https://example.test/path"}
	url, _ := buildURL(setting)
	if url != "https://example.test/path" {
		t.Fatalf("url = %q, want the hostname unchanged", url)
	}
}

func TestProbeOnce_SuccessfulGET(t *testing.T) {
	srv := httptest.NewServer(nil)
	defer srv.Close()

	addr := srv.Listener.Addr().(*net.TCPAddr)
	setting := model.PingSetting{IP: net.ParseIP("127.0.0.1"), Port: uint16(addr.Port), TimeoutMS: 2000}

	url := "http://127.0.0.1:" + strconv.Itoa(addr.Port) + "/"
	client := newClient(0)

	sample := probeOnce(context.Background(), client, url, setting, uint16(addr.Port), 1)
	if !sample.Status.IsDone() {
		t.Fatalf("status = %+v, want done", sample.Status)
	}
	if sample.RTTMs == nil {
		t.Fatalf("expected RTTMs to be set on success")
	}
}
