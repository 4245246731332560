package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spec-kit/ticket-classifier/internal/classifier"
	"github.com/spec-kit/ticket-classifier/internal/config"
)

// artifactcheck validates a trained artifact set offline: it runs the same
// load-and-validate step the server performs at startup, prints the set's
// shape and optionally classifies a sample description. Exits non-zero on
// any artifact failure so it can gate deployments.
func main() {
	sample := flag.String("sample", "", "optional description to classify after validation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	artifacts, err := classifier.LoadArtifacts(classifier.ArtifactPaths{
		Vectorizer:      cfg.Artifacts.VectorizerPath,
		DepartmentModel: cfg.Artifacts.DepartmentModelPath,
		PriorityModel:   cfg.Artifacts.PriorityModelPath,
		DepartmentCodec: cfg.Artifacts.DepartmentCodecPath,
		PriorityCodec:   cfg.Artifacts.PriorityCodecPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "artifact set invalid: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("artifact set OK\n")
	fmt.Printf("  fingerprint: %s\n", artifacts.Fingerprint())
	fmt.Printf("  dimension:   %d\n", artifacts.Dimension())
	fmt.Printf("  departments: %v\n", artifacts.DepartmentCodec.Names())
	fmt.Printf("  priorities:  %v\n", artifacts.PriorityCodec.Names())

	if *sample == "" {
		return
	}

	normalizer, err := classifier.NewNormalizer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "normalizer init failed: %v\n", err)
		os.Exit(1)
	}
	pred, err := classifier.NewPipeline(normalizer, artifacts).Predict(*sample)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sample prediction failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("sample prediction\n")
	fmt.Printf("  normalized: %q\n", pred.NormalizedText)
	fmt.Printf("  department: %s\n", pred.Department)
	fmt.Printf("  priority:   %s\n", pred.Priority)
}
