package service

// Page is one page of a listing together with the total number of matches.
type Page[T any] struct {
	Items []T
	Count int64
}
