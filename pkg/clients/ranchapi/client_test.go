package ranchapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mamadbah2/ranchprice/internal/config"
	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newTestServer(t *testing.T, routes map[string]string, status map[string]int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := recordedRequest{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &req.body)
		}
		requests = append(requests, req)

		key := r.Method + " " + r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		if code, ok := status[key]; ok {
			w.WriteHeader(code)
		}
		body, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestClient(url string) *APIClient {
	return NewClient(config.RanchAPIConfig{BaseURL: url + "/", Token: "tok", Timeout: 2 * time.Second})
}

func TestGetRanch(t *testing.T) {
	srv, requests := newTestServer(t, map[string]string{
		"GET /ranches/r1": `{"_id":"r1","name":"North","weightCategories":[{"label":"0-500","min":0,"max":"500"}],
			"pricePeriods":[{"key":"p1","startDate":"2024-01-01","layoutMode":"weight","sheetData":{"weightRows":[{"breed":"Angus","sex":["bull"],"prices":{"wb_1":480}}]}}]}`,
	}, nil)

	ranch, err := newTestClient(srv.URL).GetRanch(context.Background(), "r1")
	if err != nil {
		t.Fatalf("GetRanch: %v", err)
	}
	if ranch.ID != "r1" || len(ranch.WeightCategories) != 1 || ranch.WeightCategories[0].Max != models.NumOf(500) {
		t.Fatalf("ranch = %+v", ranch)
	}
	if (*requests)[0].auth != "Bearer tok" {
		t.Errorf("auth header = %q", (*requests)[0].auth)
	}
}

func TestGetRanch_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	_, err := newTestClient(srv.URL).GetRanch(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetRanch_ServerError(t *testing.T) {
	srv, _ := newTestServer(t,
		map[string]string{"GET /ranches/r1": `{"message":"db down"}`},
		map[string]int{"GET /ranches/r1": http.StatusInternalServerError})

	_, err := newTestClient(srv.URL).GetRanch(context.Background(), "r1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListCalves_ArrayAndEnvelope(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"GET /calves/inventory/r1": `[{"_id":"c1","breed":"Angus","sex":"bull","weight":"300","purchasePrice":null}]`,
		"GET /calves/inventory/r2": `{"calves":[{"id":"c2","breed":"Hereford","weight":410,"purchasePrice":""}]}`,
	}, nil)
	client := newTestClient(srv.URL)

	calves, err := client.ListCalves(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ListCalves r1: %v", err)
	}
	if len(calves) != 1 || calves[0].ID != "c1" || calves[0].Weight != models.NumOf(300) || calves[0].PurchasePrice.Valid {
		t.Fatalf("calves = %+v", calves)
	}

	calves, err = client.ListCalves(context.Background(), "r2")
	if err != nil {
		t.Fatalf("ListCalves r2: %v", err)
	}
	if len(calves) != 1 || calves[0].ID != "c2" {
		t.Fatalf("calves = %+v", calves)
	}
}

func TestPatchOperations(t *testing.T) {
	srv, requests := newTestServer(t, map[string]string{
		"PATCH /calves/c1":  `{}`,
		"PATCH /ranches/r1": `{}`,
	}, nil)
	client := newTestClient(srv.URL)
	ctx := context.Background()

	if err := client.SetPurchasePrice(ctx, "c1", 480); err != nil {
		t.Fatalf("SetPurchasePrice: %v", err)
	}
	if err := client.UpdateWeightCategories(ctx, "r1", []models.RawWeightBracket{{Key: "wb_1", Min: models.NumOf(0)}}); err != nil {
		t.Fatalf("UpdateWeightCategories: %v", err)
	}
	if err := client.UpdatePricePeriods(ctx, "r1", []models.PricePeriod{{Key: "p1"}}); err != nil {
		t.Fatalf("UpdatePricePeriods: %v", err)
	}

	reqs := *requests
	if len(reqs) != 3 {
		t.Fatalf("got %d requests", len(reqs))
	}
	if reqs[0].method != http.MethodPatch || reqs[0].body["purchasePrice"] != float64(480) {
		t.Errorf("price patch = %+v", reqs[0])
	}
	cats, _ := reqs[1].body["weightCategories"].([]any)
	if len(cats) != 1 {
		t.Fatalf("categories patch = %+v", reqs[1].body)
	}
	first, _ := cats[0].(map[string]any)
	if first["max"] != nil {
		t.Errorf("unset max should encode as null, got %v", first["max"])
	}
	if _, ok := reqs[2].body["pricePeriods"]; !ok {
		t.Errorf("periods patch = %+v", reqs[2].body)
	}

	if err := client.SetPurchasePrice(ctx, "ghost", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
