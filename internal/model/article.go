package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Article data model. Title is the lookup key but nothing keeps it unique.
type Article struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title   string             `json:"title" bson:"title"`
	Content string             `json:"content" bson:"content"`
}

// ArticleUpdate holds the fields present in a request body. A nil field
// was not sent.
type ArticleUpdate struct {
	Title   *string
	Content *string
}

// IsEmpty reports whether no field was sent.
func (u ArticleUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil
}

// Article builds the document a wholesale replace stores: absent fields
// are stored as empty strings.
func (u ArticleUpdate) Article() *Article {
	a := &Article{}
	if u.Title != nil {
		a.Title = *u.Title
	}

	if u.Content != nil {
		a.Content = *u.Content
	}

	return a
}

// Apply merges the present fields into a.
func (u ArticleUpdate) Apply(a *Article) {
	if u.Title != nil {
		a.Title = *u.Title
	}

	if u.Content != nil {
		a.Content = *u.Content
	}
}
