package mitre_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/secmon-lab/themis/pkg/service/mitre"
)

const stixFixture = `{
	"type": "bundle",
	"objects": [
		{
			"type": "attack-pattern",
			"id": "attack-pattern--0001",
			"name": "Phishing",
			"description": "Adversaries may send phishing messages.",
			"external_references": [
				{
					"source_name": "mitre-attack",
					"external_id": "T1566",
					"url": "https://attack.mitre.org/techniques/T1566/"
				}
			],
			"kill_chain_phases": [
				{"kill_chain_name": "mitre-attack", "phase_name": "initial-access"}
			]
		},
		{
			"type": "attack-pattern",
			"id": "attack-pattern--0002",
			"name": "No External Reference",
			"description": "Falls back to the STIX object id."
		},
		{
			"type": "attack-pattern",
			"id": "",
			"name": "",
			"description": "Dropped: neither id nor name."
		},
		{
			"type": "attack-pattern",
			"id": "attack-pattern--0003",
			"name": "Revoked Technique",
			"revoked": true
		},
		{
			"type": "intrusion-set",
			"id": "intrusion-set--0001",
			"name": "Not a technique"
		}
	]
}`

func TestFetchTechniquesFromRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(stixFixture)); err != nil {
			t.Errorf("failed to write fixture: %v", err)
		}
	}))
	defer server.Close()

	svc := mitre.New(mitre.WithFeedURL(server.URL))
	result, err := svc.FetchTechniques(context.Background())
	if err != nil {
		t.Fatalf("FetchTechniques() unexpected error: %v", err)
	}

	if result.Source != mitre.SourceRemote {
		t.Errorf("expected source=%q, got %q", mitre.SourceRemote, result.Source)
	}
	if result.Note != "" {
		t.Errorf("expected no note for remote fetch, got %q", result.Note)
	}
	if len(result.Techniques) != 2 {
		t.Fatalf("expected 2 techniques, got %d", len(result.Techniques))
	}

	first := result.Techniques[0]
	if first.ID != "T1566" {
		t.Errorf("expected external ID T1566, got %s", first.ID)
	}
	if first.Tactic != "initial-access" || first.TacticName != "Initial Access" {
		t.Errorf("unexpected tactic resolution: %s / %s", first.Tactic, first.TacticName)
	}
	if first.URL != "https://attack.mitre.org/techniques/T1566/" {
		t.Errorf("unexpected URL: %s", first.URL)
	}

	second := result.Techniques[1]
	if second.ID != "attack-pattern--0002" {
		t.Errorf("expected STIX id fallback, got %s", second.ID)
	}
	if second.TacticName != "Unknown Tactic" {
		t.Errorf("expected default tactic name, got %s", second.TacticName)
	}
}

func TestFetchTechniquesFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := mitre.New(mitre.WithFeedURL(server.URL))
	result, err := svc.FetchTechniques(context.Background())
	if err != nil {
		t.Fatalf("FetchTechniques() must not fail on remote errors: %v", err)
	}

	if result.Source != mitre.SourceFallback {
		t.Errorf("expected source=%q, got %q", mitre.SourceFallback, result.Source)
	}
	if result.Note == "" {
		t.Error("expected note explaining the fallback")
	}
	if len(result.Techniques) != 15 {
		t.Errorf("expected the 15-item sample set, got %d", len(result.Techniques))
	}
}

func TestFetchTechniquesFallsBackOnParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("not json")); err != nil {
			t.Errorf("failed to write body: %v", err)
		}
	}))
	defer server.Close()

	svc := mitre.New(mitre.WithFeedURL(server.URL))
	result, err := svc.FetchTechniques(context.Background())
	if err != nil {
		t.Fatalf("FetchTechniques() must not fail on parse errors: %v", err)
	}
	if result.Source != mitre.SourceFallback {
		t.Errorf("expected source=%q, got %q", mitre.SourceFallback, result.Source)
	}
}

func TestFetchTechniquesFallsBackOnEmptyBundle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"type":"bundle","objects":[]}`)); err != nil {
			t.Errorf("failed to write body: %v", err)
		}
	}))
	defer server.Close()

	svc := mitre.New(mitre.WithFeedURL(server.URL))
	result, err := svc.FetchTechniques(context.Background())
	if err != nil {
		t.Fatalf("FetchTechniques() must not fail on empty bundles: %v", err)
	}
	if result.Source != mitre.SourceFallback {
		t.Errorf("expected source=%q, got %q", mitre.SourceFallback, result.Source)
	}
	if len(result.Techniques) != 15 {
		t.Errorf("expected the 15-item sample set, got %d", len(result.Techniques))
	}
}

func TestSampleTechniquesCount(t *testing.T) {
	samples := mitre.SampleTechniques()
	if len(samples) != 15 {
		t.Fatalf("expected 15 sample techniques, got %d", len(samples))
	}
	for _, tech := range samples {
		if tech.ID == "" || tech.Name == "" {
			t.Errorf("sample technique missing id or name: %+v", tech)
		}
	}
}

func TestCache(t *testing.T) {
	cache := mitre.NewCache(time.Hour)

	if _, ok := cache.Get(time.Now()); ok {
		t.Error("expected empty cache to miss")
	}

	now := time.Now().UTC()
	cache.Set(&mitre.Result{
		Techniques: mitre.SampleTechniques(),
		Source:     mitre.SourceRemote,
		FetchedAt:  now,
	})

	if result, ok := cache.Get(now.Add(30 * time.Minute)); !ok {
		t.Error("expected fresh cache hit")
	} else if result.Source != mitre.SourceRemote {
		t.Errorf("unexpected cached source: %s", result.Source)
	}

	if _, ok := cache.Get(now.Add(2 * time.Hour)); ok {
		t.Error("expected expired cache to miss")
	}
}
