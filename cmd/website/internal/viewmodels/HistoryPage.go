package viewmodels

type HistoryPage struct {
	BaseViewModel

	SearchHistory []string
	SelectedQuery string
	HasSelection  bool
	Grid          GalleryGrid
}
