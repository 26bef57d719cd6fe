package report

import "fmt"

const (
	FormatClassic = "classic"
	FormatTable   = "table"
)

// Config selects the report layout.
type Config struct {
	Format string `json:"format"`
	// Gantt appends the dispatch timeline below each table.
	Gantt bool `json:"gantt"`
	// Export writes every process row to a .json or .csv file when set.
	Export string `json:"export"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Format == "" {
		c.Format = FormatClassic
	}
}

// Validate checks the format name.
func (c Config) Validate() error {
	switch c.Format {
	case "", FormatClassic, FormatTable:
		return nil
	default:
		return fmt.Errorf("report.format must be %q or %q, got %q", FormatClassic, FormatTable, c.Format)
	}
}
