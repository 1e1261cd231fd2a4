// Command form-inspect lists the interactive form fields of a PDF
// document, in text or JSON form. Useful for checking what a document
// carries before opening it in the editor, and for verifying exports.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/acrolay/pdf-form-editor/internal/form"
	"github.com/acrolay/pdf-form-editor/internal/pdf"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	result, err := inspectFields(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading form fields: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Form Inspect - List interactive form fields in a PDF document")
	fmt.Println()
	fmt.Println("Reads the widget annotations of an AcroForm document and prints each")
	fmt.Println("text field and checkbox with its page, geometry, and current value.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format   Output format: text (default), json")
	fmt.Println("  -help     Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  form-inspect document.pdf")
	fmt.Println("  form-inspect -format json forms/application.pdf")
	fmt.Println()
	fmt.Println("Choice, signature, and radio button fields are skipped; positions are")
	fmt.Println("in PDF points with a bottom-left origin.")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  form-inspect [OPTIONS] <pdf_file>")
}

// InspectResult is the complete result of a field scan.
type InspectResult struct {
	FilePath   string       `json:"file_path"`
	FieldCount int          `json:"field_count"`
	Fields     []FieldEntry `json:"fields"`
}

// FieldEntry is one form field in the output.
type FieldEntry struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Page         int     `json:"page"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Required     bool    `json:"required"`
	DefaultValue string  `json:"default_value,omitempty"`
	Checked      bool    `json:"checked,omitempty"`
}

func inspectFields(pdfPath string) (*InspectResult, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	fields, err := pdf.ImportFields(absPath)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		FilePath:   absPath,
		FieldCount: len(fields),
		Fields:     make([]FieldEntry, 0, len(fields)),
	}
	for _, f := range fields {
		entry := FieldEntry{
			Name:         f.Name,
			Type:         string(f.Type),
			X:            f.X,
			Y:            f.Y,
			Width:        f.Width,
			Height:       f.Height,
			Required:     f.Required,
			DefaultValue: f.DefaultValue,
			Checked:      f.Checked,
		}
		if f.Page.Assigned() {
			entry.Page = f.Page.Index()
		}
		result.Fields = append(result.Fields, entry)
	}
	return result, nil
}

func outputResults(result *InspectResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *InspectResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *InspectResult) error {
	if result.FieldCount == 0 {
		fmt.Println("No form fields detected in the PDF")
		return nil
	}

	fmt.Printf("Found %d form field(s) in %s\n", result.FieldCount, result.FilePath)
	fmt.Println()

	for i, field := range result.Fields {
		fmt.Printf("[%d] %s\n", i+1, field.Name)
		fmt.Printf("    Type: %s\n", field.Type)
		fmt.Printf("    Page: %d\n", field.Page)
		fmt.Printf("    Position: (%.1f, %.1f), size %.1f x %.1f pt\n",
			field.X, field.Y, field.Width, field.Height)

		if field.Required {
			fmt.Println("    Required: true")
		}
		if field.Type == string(form.FieldTypeText) && field.DefaultValue != "" {
			fmt.Printf("    Value: %s\n", field.DefaultValue)
		}
		if field.Type == string(form.FieldTypeCheckbox) {
			fmt.Printf("    Checked: %t\n", field.Checked)
		}

		fmt.Println()
	}

	return nil
}

func init() {
	// Custom flag usage
	flag.Usage = func() {
		printHelp()
	}
}
