package pdf

// FileInfo describes a PDF file found during directory discovery.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// PDFSearchDirectoryRequest is a request to discover PDF files in a
// directory.
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query,omitempty"`
}

// PDFSearchDirectoryResult contains the results of a directory search.
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// PDFValidateFileRequest is a request to check that a file is a readable
// PDF.
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFValidateFileResult contains the outcome of a validation check.
type PDFValidateFileResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// PDFPageTextRequest is a request for the positioned text of one page.
type PDFPageTextRequest struct {
	Path      string `json:"path"`
	PageIndex int    `json:"page_index"`
}

// TextRow is one row of page text with its vertical position in points
// (bottom-left origin, matching field geometry).
type TextRow struct {
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// PDFPageTextResult contains a page's text grouped into rows, top of the
// page first.
type PDFPageTextResult struct {
	Path      string    `json:"path"`
	PageIndex int       `json:"page_index"`
	Rows      []TextRow `json:"rows"`
}
