package entities

// Artifacts are the forensic files captured when a run fails.
type Artifacts struct {
	ScreenshotPath string `json:"screenshotPath,omitempty"`
	RawHTMLPath    string `json:"rawHtmlPath,omitempty"`
}

// Result is the outcome of one run. It is owned by the caller once returned.
type Result struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Errors    []string   `json:"errors,omitempty"`
	Artifacts *Artifacts `json:"artifacts,omitempty"`
}

// Succeeded builds a successful Result.
func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

// Failed builds a failed Result.
func Failed(message string, errs ...string) Result {
	return Result{Success: false, Message: message, Errors: errs}
}
