package fetch

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestClient(buf *bytes.Buffer) *Client {
	return New(time.Second, "datamine-test", slog.New(slog.NewTextHandler(buf, nil)))
}

func TestClient_JSON(t *testing.T) {
	var gotQuery, gotAuth, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[1,2],"ok":true}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	got := newTestClient(&logs).JSON(context.Background(), srv.URL+"/v1?fixed=1",
		map[string]string{"page": "2"},
		map[string]string{"Authorization": "Bearer t"},
	)

	want := map[string]any{"items": []any{float64(1), float64(2)}, "ok": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("JSON() = %#v, want %#v", got, want)
	}
	if gotQuery != "fixed=1&page=2" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "Bearer t" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotUA != "datamine-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestClient_JSON_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		closed  bool
		wantLog string
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusNotFound)
			},
			wantLog: "HTTP error",
		},
		{
			name: "invalid body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
			wantLog: "JSON decode failed",
		},
		{
			name:    "transport failure",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			closed:  true,
			wantLog: "request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			url := srv.URL
			if tt.closed {
				srv.Close()
			} else {
				defer srv.Close()
			}

			var logs bytes.Buffer
			got := newTestClient(&logs).JSON(context.Background(), url, nil, nil)

			if m, ok := got.(map[string]any); !ok || len(m) != 0 {
				t.Errorf("JSON() = %#v, want empty map", got)
			}
			if !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("log %q missing %q", logs.String(), tt.wantLog)
			}
		})
	}
}

func TestClient_JSON_Array(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"a":1}]`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	got := newTestClient(&logs).JSON(context.Background(), srv.URL, nil, nil)
	if _, ok := got.([]any); !ok {
		t.Errorf("JSON() = %#v, want a slice", got)
	}
}
