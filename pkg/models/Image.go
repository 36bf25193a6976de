package models

/*
Image is a single photo record as returned by the search API. Images are
never modified after they are fetched.
*/
type Image struct {
	ID             string    `json:"id"`
	URLs           ImageURLs `json:"urls"`
	AltDescription string    `json:"alt_description"`
	Likes          int       `json:"likes"`
}

type ImageURLs struct {
	Small string `json:"small"`
}
