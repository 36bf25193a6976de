/*
Package gallery holds the per-view state of a photo gallery: the paginator
that drives page fetches for the active query, and the detail view that
enriches the selected photo with statistics.

A Paginator allows at most one outstanding fetch for the active query.
Submitting a new query starts a new epoch; results of fetches started in
an earlier epoch are dropped when they arrive.
*/
package gallery
