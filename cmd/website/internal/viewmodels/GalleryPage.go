package viewmodels

type GalleryPage struct {
	BaseViewModel

	Query            string
	SearchDebounceMs int
	Grid             GalleryGrid
}
