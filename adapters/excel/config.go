package excel

// ReaderConfig holds configuration for spreadsheet sources
type ReaderConfig struct {
	SheetName   string `json:"sheet_name"`   // empty reads the first sheet
	PreviewRows int    `json:"preview_rows"` // rows logged after loading
}

// DefaultReaderConfig returns the settings used by the report driver
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		PreviewRows: 5,
	}
}
