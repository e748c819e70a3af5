package rodhost

import "time"

// Config selects the browser a Provider talks to. ControlURL wins over
// launching Bin.
type Config struct {
	Bin        string        `yaml:"bin"`
	ControlURL string        `yaml:"control_url"`
	Headless   bool          `yaml:"headless"`
	Timeout    time.Duration `yaml:"timeout"`
	// Stealth opens pages with the evasion scripts from go-rod/stealth.
	Stealth bool `yaml:"stealth"`
}

// DefaultConfig launches the browser rod finds or downloads, headless,
// with a 30 second budget per call.
func DefaultConfig() Config {
	return Config{
		Headless: true,
		Timeout:  30 * time.Second,
	}
}
