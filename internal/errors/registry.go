package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (R001-R009)
	"R001": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No relayed.json or relayed.yaml was found in the working directory or any parent directory.",
	},
	"R002": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The config file could not be parsed.",
	},
	"R003": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A config value is out of range or has the wrong form.",
	},
	"R004": {
		Category: CategoryConfig,
		Message:  "Failed to write config file",
		Detail:   "The config file could not be written.",
	},
	"R005": {
		Category: CategoryConfig,
		Message:  "Config file already exists",
		Detail:   "A relayed.json or relayed.yaml is already present in the target directory.",
	},

	// Accessor generation (R010-R019)
	"R010": {
		Category: CategoryGenerate,
		Message:  "No relay cells found",
		Detail:   "The package has no unexported struct fields of type relay.Cell[T] or *relay.Cell[T].",
	},
	"R011": {
		Category: CategoryGenerate,
		Message:  "Failed to parse Go source",
		Detail:   "A file in the package could not be parsed.",
	},
	"R012": {
		Category: CategoryGenerate,
		Message:  "Generated code is not valid Go",
		Detail:   "The generated accessors could not be formatted. This usually means a field type could not be printed.",
	},
	"R013": {
		Category: CategoryGenerate,
		Message:  "Failed to write generated file",
		Detail:   "The output file could not be written.",
	},
	"R014": {
		Category: CategoryGenerate,
		Message:  "Accessor name collision",
		Detail:   "Two fields of the same type derive the same accessor name.",
	},
	"R015": {
		Category: CategoryGenerate,
		Message:  "Invalid accessor name",
		Detail:   "A relayed struct tag names an accessor that is not an exported Go identifier.",
	},
	"R016": {
		Category: CategoryGenerate,
		Message:  "Package directory not found",
		Detail:   "The directory to scan does not exist or is not a directory.",
	},

	// Command line (R020-R029)
	"R020": {
		Category: CategoryCLI,
		Message:  "Unknown log level",
		Detail:   "Log level must be one of debug, info, warn, or error.",
	},
	"R021": {
		Category: CategoryCLI,
		Message:  "Unknown log format",
		Detail:   "Log format must be text or json.",
	},
	"R022": {
		Category: CategoryCLI,
		Message:  "Demo step failed",
		Detail:   "A step of the scripted board session returned an error.",
	},
}

// Codes returns all registered error codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
