package questionbank

// ViewState is the explicit application state of the question bank page.
// The console passes it around instead of keeping view globals.
type ViewState struct {
	Search     string
	TypeFilter QuestionType
	Page       int
	PageSize   int

	// Input surfaces currently open
	AddOpen      bool
	EditOpen     bool
	GenerateOpen bool
	PreviewOpen  bool

	// Editing is the record loaded into the edit surface
	Editing *Question
}

// NewViewState returns the state of a freshly opened page
func NewViewState(pageSize int) *ViewState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ViewState{Page: 1, PageSize: pageSize}
}

// SetSearch changes the search text and goes back to the first page
func (s *ViewState) SetSearch(search string) {
	s.Search = search
	s.Page = 1
}

// SetTypeFilter changes the type filter (0 clears it) and goes back to the
// first page
func (s *ViewState) SetTypeFilter(t QuestionType) {
	s.TypeFilter = t
	s.Page = 1
}

// SetPageSize changes the page size and goes back to the first page
func (s *ViewState) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	s.PageSize = size
	s.Page = 1
}
