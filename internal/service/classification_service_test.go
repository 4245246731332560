package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/classifier"
	"github.com/spec-kit/ticket-classifier/internal/events"
)

// testPipeline builds a tiny one-department pipeline with a deterministic
// outcome: anything mentioning network or printer terms classifies as
// IT Support / High, everything else falls back to Billing / Low.
func testPipeline(t *testing.T) *classifier.Pipeline {
	t.Helper()

	vectorizer, err := classifier.NewVectorizer(
		map[string]int{"network": 0, "printer": 1},
		[]float64{1, 1},
	)
	if err != nil {
		t.Fatalf("NewVectorizer: %v", err)
	}
	deptModel, err := classifier.NewLinearModel(
		[][]float64{{-1, -1}, {1, 1}},
		[]float64{0.5, 0},
	)
	if err != nil {
		t.Fatalf("NewLinearModel: %v", err)
	}
	prioModel, err := classifier.NewLinearModel(
		[][]float64{{-1, -1}, {1, 1}},
		[]float64{0.5, 0},
	)
	if err != nil {
		t.Fatalf("NewLinearModel: %v", err)
	}
	deptCodec, err := classifier.NewLabelCodec("department", []string{"Billing", "IT Support"})
	if err != nil {
		t.Fatalf("NewLabelCodec: %v", err)
	}
	prioCodec, err := classifier.NewLabelCodec("priority", []string{"Low", "High"})
	if err != nil {
		t.Fatalf("NewLabelCodec: %v", err)
	}
	normalizer, err := classifier.NewNormalizer()
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return classifier.NewPipeline(normalizer, &classifier.ArtifactSet{
		Vectorizer:      vectorizer,
		DepartmentModel: deptModel,
		PriorityModel:   prioModel,
		DepartmentCodec: deptCodec,
		PriorityCodec:   prioCodec,
	})
}

func TestClassify(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventPredictionCompleted, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := NewClassificationService(ClassificationDependencies{
		Pipeline:   testPipeline(t),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})

	result, err := svc.Classify(context.Background(), "network printer issue")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Department != "IT Support" || result.Priority != "High" {
		t.Fatalf("classified as %s/%s, want IT Support/High", result.Department, result.Priority)
	}
	if result.CacheHit {
		t.Fatal("no cache configured but result marked as cache hit")
	}
	if !strings.HasPrefix(result.ExternalKey, "PRD-") || len(result.ExternalKey) != 12 {
		t.Fatalf("external key %q has wrong shape", result.ExternalKey)
	}

	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	payload, ok := published[0].Payload.(events.PredictionCompletedPayload)
	if !ok {
		t.Fatalf("payload type %T", published[0].Payload)
	}
	if payload.ExternalKey != result.ExternalKey || payload.Department != "IT Support" {
		t.Fatalf("event payload %+v does not match result", payload)
	}
}

func TestClassify_EmptyDescription(t *testing.T) {
	svc := NewClassificationService(ClassificationDependencies{
		Pipeline: testPipeline(t),
		Logger:   zap.NewNop(),
	})
	for _, input := range []string{"", "   "} {
		_, err := svc.Classify(context.Background(), input)
		if !errors.Is(err, classifier.ErrEmptyDescription) {
			t.Fatalf("Classify(%q): error %v, want ErrEmptyDescription", input, err)
		}
	}
}

func TestClassify_NilCollaboratorsAreSafe(t *testing.T) {
	// No cache, metrics or dispatcher configured; classification must still
	// work since every collaborator is optional.
	svc := NewClassificationService(ClassificationDependencies{
		Pipeline: testPipeline(t),
		Logger:   zap.NewNop(),
	})
	result, err := svc.Classify(context.Background(), "the printer is broken")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Department != "IT Support" {
		t.Fatalf("department = %q", result.Department)
	}
}

func TestClassify_FreshExternalKeyPerCall(t *testing.T) {
	svc := NewClassificationService(ClassificationDependencies{
		Pipeline: testPipeline(t),
		Logger:   zap.NewNop(),
	})
	first, err := svc.Classify(context.Background(), "printer jam")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	second, err := svc.Classify(context.Background(), "printer jam")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if first.ExternalKey == second.ExternalKey {
		t.Fatal("repeated classifications shared an external key")
	}
	if first.Prediction != second.Prediction {
		t.Fatalf("same input produced different predictions: %+v vs %+v",
			first.Prediction, second.Prediction)
	}
}
