// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"internship-recommender/pkg/registry"
)

const modulePath = "internship-recommender"

// WorkerData holds data for templates
type WorkerData struct {
	Module         string
	ID             string
	Dir            string
	PackageName    string
	TaskType       string
	Description    string
	TimeoutLiteral string
	InputSchema    map[string]interface{}
	OutputSchema   map[string]interface{}
}

func newWorkerData(activity registry.Activity) WorkerData {
	timeout := 10 * time.Second
	if d, err := activity.TimeoutDuration(); err == nil && d > 0 {
		timeout = d
	}
	description := activity.Description
	if description == "" {
		description = activity.DisplayName
	}
	return WorkerData{
		Module:         modulePath,
		ID:             activity.ID,
		Dir:            categoryDirectory(activity.Category),
		PackageName:    packageName(activity.ID),
		TaskType:       activity.TaskType,
		Description:    fmt.Sprintf("Handler runs %s jobs: %s", activity.TaskType, description),
		TimeoutLiteral: fmt.Sprintf("%d * time.Millisecond", timeout.Milliseconds()),
		InputSchema:    activity.InputSchema,
		OutputSchema:   activity.OutputSchema,
	}
}

// render executes every template and gofmts the result. Keys are file names.
func render(data WorkerData) (map[string][]byte, error) {
	funcMap := template.FuncMap{
		"fields": generateStructFields,
	}

	templates := map[string]string{
		"config.go":       configTemplate,
		"models.go":       modelsTemplate,
		"handler.go":      handlerTemplate,
		"handler_test.go": testTemplate,
	}

	out := make(map[string][]byte, len(templates))
	for filename, tmplStr := range templates {
		tmpl, err := template.New(filename).Funcs(funcMap).Parse(tmplStr)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", filename, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute template %s: %w", filename, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", filename, err)
		}
		out[filename] = src
	}
	return out, nil
}

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., analyze-skill-gap)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "pkg/registry/activity-registry.json", "Path to the activity registry JSON file")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator --activity <id> [--output <dir>] [--registry <path>] [--force]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/worker-generator --activity analyze-skill-gap")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	var found *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == *activity {
			found = &reg.Activities[i]
			break
		}
	}
	if found == nil {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	data := newWorkerData(*found)
	files, err := render(data)
	if err != nil {
		fmt.Printf("Error rendering worker: %v\n", err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, data.Dir, data.ID)
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	for filename, src := range files {
		path := filepath.Join(workerDir, filename)
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Printf("Skipped %s (exists, use --force)\n", path)
			continue
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Generated %s\n", path)
	}

	fmt.Printf("\nWorker scaffold generated at: %s\n", workerDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement execute in handler.go against internal/service\n")
	fmt.Printf("  2. Write tests in handler_test.go\n")
	fmt.Printf("  3. Register the handler in cmd/worker-manager/main.go\n")
	fmt.Printf("  4. Add the worker section to configs/config.yaml\n")
}
