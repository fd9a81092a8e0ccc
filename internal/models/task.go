package models

// Task belongs to a list; ownership is checked through the parent list.
type Task struct {
	ID        string `bson:"_id,omitempty" json:"_id"`
	Title     string `bson:"title" json:"title"`
	Completed bool   `bson:"completed" json:"completed"`
	ListID    string `bson:"_listId" json:"_listId"`
}
