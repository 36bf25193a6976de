package models

/*
PhotoPage is one fetch unit for a query and page number. TotalPages is
zero when the feed does not report it.
*/
type PhotoPage struct {
	Images     []Image
	Total      int
	TotalPages int
}
