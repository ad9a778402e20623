package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Configuration Errors (T100-T139)
	// ============================================

	"T100": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "todoview.json exists but could not be read.",
	},
	"T101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "todoview.json is not valid JSON or has fields of the wrong type.",
	},
	"T102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
	},
	"T103": {
		Category: CategoryConfig,
		Message:  "Configuration file not written",
		Detail:   "The configuration could not be saved.",
	},

	// ============================================
	// CLI Errors (T140-T159)
	// ============================================

	"T140": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
	"T141": {
		Category: CategoryCLI,
		Message:  "Invalid flag",
		Detail:   "A command line flag has an invalid value.",
	},
	"T142": {
		Category: CategoryCLI,
		Message:  "List source unavailable",
		Detail:   "The configured list source could not be set up.",
	},

	// ============================================
	// Storage Errors (T160-T179)
	// ============================================

	"T160": {
		Category: CategoryStorage,
		Message:  "Database unavailable",
		Detail:   "The SQLite database could not be opened or migrated.",
	},
	"T161": {
		Category: CategoryStorage,
		Message:  "Seed failed",
		Detail:   "The initial to-do list could not be written.",
	},

	// ============================================
	// Host Errors (T180-T199)
	// ============================================

	"T180": {
		Category: CategoryHost,
		Message:  "Page setup failed",
		Detail:   "The view state could not be created or mounted.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
