// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"internship-recommender/internal/common/validation"
	"internship-recommender/pkg/registry"
)

const defaultRegistryPath = "pkg/registry/activity-registry.json"

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	// Add command flags
	addPath := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Activity ID (e.g., recommend-internships)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Recommend Internships)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., recommendation)")
	taskType := addCmd.String("taskType", "", "Zeebe Task Type (defaults to id)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
	timeout := addCmd.String("timeout", "10s", "Job timeout")

	// Update command flags
	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries, ...)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")
	listPath := listCmd.String("path", defaultRegistryPath, "Path to registry file")

	// Check command flags
	checkPath := checkCmd.String("path", defaultRegistryPath, "Path to registry file")
	checkTask := checkCmd.String("taskType", "", "Task type whose input schema is used")
	checkVars := checkCmd.String("vars", "", "JSON file with sample job variables")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		_ = addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *category == "" {
			fmt.Println("Error: id, displayName, description, and category are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if *taskType == "" {
			*taskType = *idAdd
		}
		err = edit(*addPath, true, func(reg *registry.ActivityRegistry) error {
			return reg.Add(registry.Activity{
				ID:                   *idAdd,
				DisplayName:          *displayName,
				Description:          *description,
				Category:             *category,
				Version:              *version,
				TaskType:             *taskType,
				ImplementationStatus: *implStatus,
				InputSchema:          map[string]interface{}{"type": "object"},
				OutputSchema:         map[string]interface{}{"type": "object"},
				ErrorCodes:           []string{"INVALID_INPUT", "INTERNAL_ERROR"},
				Timeout:              *timeout,
				Tags:                 []string{},
			})
		})
		if err == nil {
			fmt.Printf("Added activity: %s\n", *idAdd)
		}

	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err = edit(*updatePath, false, func(reg *registry.ActivityRegistry) error {
			return reg.Update(*idUpdate, *field, *value)
		})
		if err == nil {
			fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)
		}

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		err = validateRegistry(*validatePath)

	case "check":
		_ = checkCmd.Parse(os.Args[2:])
		if *checkTask == "" || *checkVars == "" {
			fmt.Println("Error: taskType and vars are required for check.")
			checkCmd.Usage()
			os.Exit(1)
		}
		err = checkVariables(*checkPath, *checkTask, *checkVars)

	case "list":
		_ = listCmd.Parse(os.Args[2:])
		err = listActivities(*listPath)

	case "help":
		help()
	default:
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// edit loads the registry at path, applies fn, validates and saves it.
func edit(path string, createMissing bool, fn func(*registry.ActivityRegistry) error) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) || !createMissing {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}
	if err := fn(reg); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry invalid after edit: %w", err)
	}
	return reg.Save(path)
}

// validateRegistry checks the registry fields and compiles every input
// schema the workers validate against.
func validateRegistry(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	if _, err := validation.NewValidator(reg); err != nil {
		return err
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func checkVariables(path, taskType, varsPath string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if _, ok := reg.Find(taskType); !ok {
		return fmt.Errorf("task type %s is not registered", taskType)
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		return err
	}
	vars, err := os.ReadFile(varsPath)
	if err != nil {
		return fmt.Errorf("failed to read variables: %w", err)
	}

	result, err := validator.Validate(taskType, string(vars))
	if err != nil {
		return err
	}
	if !result.Valid {
		for _, msg := range result.GetErrorMessages() {
			fmt.Printf("  - %s\n", msg)
		}
		return fmt.Errorf("%d validation errors for %s", len(result.Errors), taskType)
	}
	fmt.Printf("Variables are valid for %s.\n", taskType)
	return nil
}

func listActivities(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, a := range reg.ByCategory() {
		fmt.Printf("%-16s %-24s %-12s timeout=%-5s retries=%d\n", a.Category, a.TaskType, a.ImplementationStatus, a.Timeout, a.Retries)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file and compile its input schemas
  check     Validate sample job variables against a task type's input schema
  list      List registered activities
  help      Show this help message

Examples:
  registry-updater add -id rank-by-stipend -displayName "Rank By Stipend" -description "Orders internships by stipend" -category recommendation
  registry-updater update -id recommend-internships -field status -value verified
  registry-updater validate -path pkg/registry/activity-registry.json
  registry-updater check -taskType recommend-internships -vars sample.json

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
