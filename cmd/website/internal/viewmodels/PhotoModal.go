package viewmodels

type PhotoModal struct {
	BaseViewModel

	ID             string
	ThumbnailURL   string
	AltDescription string
	Likes          int
	Views          string
	Downloads      string
}
