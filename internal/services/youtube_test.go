package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const quotaErrorBody = `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`

func newTestClient(t *testing.T, keys []string, handler http.HandlerFunc) (*YouTubeClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	pool := NewKeyPool(staticKeys{keys: keys})
	if err := pool.Load(context.Background()); err != nil {
		t.Fatalf("pool load failed: %v", err)
	}

	return NewYouTubeClient(pool, server.URL, 5*time.Second), server
}

func TestYouTubeClient_QuotaRotationExhaustsPool(t *testing.T) {
	var usedKeys []string
	client, _ := newTestClient(t, []string{"key-1", "key-2"}, func(w http.ResponseWriter, r *http.Request) {
		usedKeys = append(usedKeys, r.URL.Query().Get("key"))
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(quotaErrorBody))
	})

	_, err := client.Details(context.Background(), []string{"abc"})
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}

	if len(usedKeys) != 2 || usedKeys[0] != "key-1" || usedKeys[1] != "key-2" {
		t.Fatalf("expected both keys tried in order, got %v", usedKeys)
	}
}

func TestYouTubeClient_NonQuotaErrorFailsImmediately(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, []string{"key-1", "key-2"}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
	})

	_, err := client.Search(context.Background(), "go tutorial", 10)
	if !errors.Is(err, ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt for non-quota failure, got %d", calls)
	}
}

func TestYouTubeClient_DetailsBatchesIDsIntoOneCall(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, []string{"key-1"}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.URL.Query().Get("id"); got != "a,b,c" {
			t.Errorf("expected batched ids a,b,c, got %q", got)
		}
		w.Write([]byte(`{"items":[
			{"id":"a","snippet":{"title":"First","channelId":"c1","channelTitle":"Chan","publishedAt":"2026-08-30T10:00:00Z","tags":["go"]},"statistics":{"viewCount":"1500"}},
			{"id":"b","snippet":{"title":"Second","channelTitle":"Chan","publishedAt":"2026-08-29T10:00:00Z"},"statistics":{"viewCount":"300"}}
		]}`))
	})

	records, err := client.Details(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one external call, got %d", calls)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Views != 1500 || records[0].ChannelName != "Chan" {
		t.Fatalf("record not normalized: %+v", records[0])
	}
}

func TestYouTubeClient_SearchSkipsItemsWithoutID(t *testing.T) {
	client, _ := newTestClient(t, []string{"key-1"}, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "react tutorial" {
			t.Errorf("expected keyword in query, got %q", got)
		}
		w.Write([]byte(`{"items":[
			{"id":{"videoId":"v1"},"snippet":{"title":"Hit","publishedAt":"2026-08-30T10:00:00Z"}},
			{"id":{},"snippet":{"title":"Channel result"}}
		]}`))
	})

	records, err := client.Search(context.Background(), "react tutorial", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].VideoID != "v1" {
		t.Fatalf("expected single record v1, got %+v", records)
	}
}

func TestYouTubeClient_DetailsEmptyIDs(t *testing.T) {
	client, _ := newTestClient(t, []string{"key-1"}, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no call expected for empty id list")
	})

	records, err := client.Details(context.Background(), nil)
	if err != nil || records != nil {
		t.Fatalf("expected nil, nil for empty ids, got %v, %v", records, err)
	}
}
