package models

// List is a task list owned by exactly one user. The owner reference is what
// every list query is scoped by.
type List struct {
	ID     string `bson:"_id,omitempty" json:"_id"`
	Title  string `bson:"title" json:"title"`
	UserID string `bson:"_userId" json:"_userId"`
}
