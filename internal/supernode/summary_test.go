package supernode

import (
	"reflect"
	"testing"

	"github.com/FNNDSC/pl-supernode/internal/model"
	"github.com/hashicorp/go-hclog"
)

func TestSummaryExtractor(t *testing.T) {
	trainLine := `other text [fedmed-supernode-app] SUMMARY {"kind":"train","nodeId":2,"metrics":{"acc":0.9}}`

	t.Run("stores a well-formed train record", func(t *testing.T) {
		extractor := NewSummaryExtractor(hclog.NewNullLogger())
		extractor.WriteLine(trainLine)

		summary, ok := extractor.Summary()
		if !ok {
			t.Fatalf("expected a stored summary")
		}
		want := &model.SummaryRecord{Kind: "train", NodeId: 2, Metrics: map[string]float64{"acc": 0.9}}
		if !reflect.DeepEqual(summary, want) {
			t.Fatalf("got %+v, want %+v", summary, want)
		}
	})

	t.Run("ignores non-train kinds", func(t *testing.T) {
		extractor := NewSummaryExtractor(hclog.NewNullLogger())
		extractor.WriteLine(trainLine)
		extractor.WriteLine(`[fedmed-supernode-app] SUMMARY {"kind":"eval","nodeId":2,"metrics":{"acc":0.5}}`)

		summary, ok := extractor.Summary()
		if !ok || summary.Metrics["acc"] != 0.9 {
			t.Fatalf("eval record must not replace the stored train record, got %+v", summary)
		}
	})

	t.Run("malformed payload leaves stored record unchanged", func(t *testing.T) {
		extractor := NewSummaryExtractor(hclog.NewNullLogger())
		extractor.WriteLine(trainLine)
		extractor.WriteLine(`[fedmed-supernode-app] SUMMARY {"kind":`)
		extractor.WriteLine(`[fedmed-supernode-app] SUMMARY not-json`)

		summary, ok := extractor.Summary()
		if !ok || summary.NodeId != 2 {
			t.Fatalf("malformed payloads must be discarded, got %+v", summary)
		}
	})

	t.Run("last train record wins", func(t *testing.T) {
		extractor := NewSummaryExtractor(hclog.NewNullLogger())
		extractor.WriteLine(trainLine)
		extractor.WriteLine(`[fedmed-supernode-app] SUMMARY {"kind":"train","nodeId":2,"metrics":{"acc":0.95}}`)

		summary, _ := extractor.Summary()
		if summary.Metrics["acc"] != 0.95 {
			t.Fatalf("expected the most recent train record, got %+v", summary)
		}
	})

	t.Run("lines without the token are ignored", func(t *testing.T) {
		extractor := NewSummaryExtractor(hclog.NewNullLogger())
		extractor.WriteLine(`plain worker output {"kind":"train"}`)

		if _, ok := extractor.Summary(); ok {
			t.Fatalf("expected no stored summary")
		}
	})

	t.Run("payload is trimmed before decoding", func(t *testing.T) {
		extractor := NewSummaryExtractor(hclog.NewNullLogger())
		extractor.WriteLine(`[fedmed-supernode-app] SUMMARY   {"kind":"train","nodeId":0,"metrics":{}}  `)

		if _, ok := extractor.Summary(); !ok {
			t.Fatalf("expected padded payload to decode")
		}
	})
}
