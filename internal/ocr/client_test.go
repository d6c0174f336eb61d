package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestRecognizeUnconfiguredIsNoop(t *testing.T) {
	client := NewClient(Config{})
	text, ok := client.Recognize(context.Background(), []byte("pdf"), "doc.pdf")
	if ok || text != "" {
		t.Fatalf("expected degraded no-op, got %q ok=%v", text, ok)
	}
}

func TestRecognizeSendsBase64Payload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer ocr-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req struct {
			File     string `json:"file"`
			Filename string `json:"filename"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(req.File)
		if err != nil {
			t.Errorf("file not base64: %v", err)
		}
		if string(decoded) != "raw pdf bytes" {
			t.Errorf("unexpected payload %q", decoded)
		}
		if req.Filename != "scan.pdf" {
			t.Errorf("unexpected filename %q", req.Filename)
		}
		w.Write([]byte(`{"text":"recognized text"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, APIKey: "ocr-key"})
	text, ok := client.Recognize(context.Background(), []byte("raw pdf bytes"), "scan.pdf")
	if !ok {
		t.Fatal("expected successful recognition")
	}
	if text != "recognized text" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestRecognizeAlternateResponseShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "content key", body: `{"content":"from content"}`, want: "from content"},
		{name: "nested data", body: `{"data":{"text":"from data"}}`, want: "from data"},
		{name: "text wins over content", body: `{"text":"primary","content":"secondary"}`, want: "primary"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(Config{URL: srv.URL})
			text, ok := client.Recognize(context.Background(), []byte("x"), "a.pdf")
			if !ok {
				t.Fatal("expected ok")
			}
			if text != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, text)
			}
		})
	}
}

func TestRecognizeFailuresDegrade(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(Config{URL: srv.URL})
		if _, ok := client.Recognize(context.Background(), []byte("x"), "a.pdf"); ok {
			t.Fatal("expected degradation on non-2xx")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		client := NewClient(Config{URL: srv.URL})
		if _, ok := client.Recognize(context.Background(), []byte("x"), "a.pdf"); ok {
			t.Fatal("expected degradation on malformed body")
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		client := NewClient(Config{URL: "http://127.0.0.1:1/nope"})
		if _, ok := client.Recognize(context.Background(), []byte("x"), "a.pdf"); ok {
			t.Fatal("expected degradation when service is unreachable")
		}
	})
}

func TestRecognizeSelfCallGuard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("self-call guard must prevent the request")
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}

	client := NewClient(Config{URL: srv.URL, OwnPort: u.Port()})
	text, ok := client.Recognize(context.Background(), []byte("x"), "a.pdf")
	if ok || text != "" {
		t.Fatalf("expected self-call to be treated as unconfigured, got %q ok=%v", text, ok)
	}
}

func TestRecognizeDifferentLoopbackPortIsNotSelfCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"hello"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, OwnPort: "1"})
	if _, ok := client.Recognize(context.Background(), []byte("x"), "a.pdf"); !ok {
		t.Fatal("expected call to proceed for a different loopback port")
	}
}
