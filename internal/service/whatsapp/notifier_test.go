package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mamadbah2/ranchprice/internal/config"
	client "github.com/mamadbah2/ranchprice/pkg/clients/whatsapp"
)

func TestNotifier_SendsThroughCloudAPI(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := client.NewClient(config.WhatsAppConfig{
		AccessToken:   "secret",
		PhoneNumberID: "555",
		BaseURL:       srv.URL,
		APIVersion:    "v20.0",
	})
	n := NewNotifier(c, "224600000000", nil)

	if err := n.Notify(context.Background(), "3 ready"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotPath != "/v20.0/555/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody["to"] != "224600000000" {
		t.Errorf("body = %v", gotBody)
	}
	text, _ := gotBody["text"].(map[string]any)
	if text["body"] != "3 ready" {
		t.Errorf("text = %v", text)
	}
}

func TestNotifier_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad recipient","code":131030}}`))
	}))
	defer srv.Close()

	c := client.NewClient(config.WhatsAppConfig{AccessToken: "t", PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})
	if err := NewNotifier(c, "x", nil).Notify(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNotifier_Unconfigured(t *testing.T) {
	if err := NewNotifier(nil, "", nil).Notify(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}
}
