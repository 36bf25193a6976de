package models

import "github.com/google/uuid"

/*
Visitor identifies one browser. It is stored in the session cookie.
*/
type Visitor struct {
	ID string
}

func NewVisitor() *Visitor {
	return &Visitor{
		ID: uuid.NewString(),
	}
}
