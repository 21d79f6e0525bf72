package tools

type Tool struct {
	Name       string
	Binary     string
	InstallCmd string
	Required   bool
	MinVersion string // lowest known-good release, empty = any
}

type ToolStatus struct {
	Name, Version string
	Installed     bool
	Outdated      bool
}

type AllToolsStatus struct {
	Go, Python []ToolStatus
}

// GoTools - all Go-based tools
func GoTools() []Tool {
	return []Tool{
		// Subdomain enumeration
		{"subfinder", "subfinder", "github.com/projectdiscovery/subfinder/v2/cmd/subfinder@latest", true, "2.6.0"},
		{"shuffledns", "shuffledns", "github.com/projectdiscovery/shuffledns/cmd/shuffledns@latest", true, ""},
		{"amass", "amass", "github.com/owasp-amass/amass/v4/...@master", true, ""},

		// HTTP probing
		{"httpx", "httpx", "github.com/projectdiscovery/httpx/cmd/httpx@latest", true, "1.3.0"},

		// Takeover
		{"subjack", "subjack", "github.com/haccer/subjack@latest", false, ""},

		// Vulnerability scanning
		{"nuclei", "nuclei", "github.com/projectdiscovery/nuclei/v3/cmd/nuclei@latest", true, "3.0.0"},

		// Screenshots
		{"aquatone", "aquatone", "github.com/michenriksen/aquatone@latest", false, ""},

		// shuffledns resolves through massdns under the hood
		{"massdns", "massdns", "", false, ""},
	}
}

// PythonTools - Python tools installed via pip
func PythonTools() []Tool {
	return []Tool{
		{"sublist3r", "sublist3r", "pip install sublist3r", false, ""},
		{"s3scanner", "s3scanner", "pip install s3scanner", false, ""},
	}
}

// All returns every tool the pipeline may invoke
func All() []Tool {
	return append(GoTools(), PythonTools()...)
}
